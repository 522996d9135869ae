// Package target derives profit/stop levels and a time estimate for a
// signal at emission time. Targets are computed once and never revised.
package target

import (
	"math"
	"time"

	"TradePulse/internal/domain/models"
)

const (
	// etaBuffer pads the ATR-velocity estimate; price rarely moves in a
	// straight line.
	etaBuffer = 1.4

	minETA = 5 * time.Minute
	maxETA = 4 * 7 * 24 * time.Hour
)

// Compute builds the target set for a signal. ATR undefined returns nil:
// the signal ships target-pending. atrAvg is the mean ATR over the recent
// window and drives the time estimate; it falls back to the spot ATR.
func Compute(side models.Side, entry float64, atr, atrAvg models.IndicatorValue, interval models.Interval) *models.Target {
	if !atr.Defined || atr.Value <= 0 {
		return nil
	}

	t := &models.Target{}
	switch side {
	case models.SideBuy:
		t.TP1 = entry + atr.Value
		t.TP2 = entry + 2*atr.Value
		t.SL = entry - atr.Value
	case models.SideSell:
		t.TP1 = entry - atr.Value
		t.TP2 = entry - 2*atr.Value
		t.SL = entry + atr.Value
	default:
		return nil
	}

	perBar := atr.Value
	if atrAvg.Defined && atrAvg.Value > 0 {
		perBar = atrAvg.Value
	}

	distance := math.Abs(t.TP1 - entry)
	bars := math.Max(1, distance/perBar*etaBuffer)
	t.ETABars = bars

	eta := time.Duration(bars * interval.TradingMinutes() * float64(time.Minute))
	if eta < minETA {
		eta = minETA
	}
	if eta > maxETA {
		t.Unbounded = true
		eta = maxETA
	}
	t.ETA = eta
	return t
}
