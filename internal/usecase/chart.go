package usecase

import (
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/engine"
	"TradePulse/internal/indicator"
	xhttp "TradePulse/pkg/http"
)

// ChartPoint is one bar with its overlay values, ready for the UI.
type ChartPoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	EMA9   *float64  `json:"ema9,omitempty"`
	EMA21  *float64  `json:"ema21,omitempty"`
	EMA200 *float64  `json:"ema200,omitempty"`
}

// ChartData is the chart snapshot for one lane.
type ChartData struct {
	Symbol   string           `json:"symbol"`
	Interval models.Interval  `json:"interval"`
	Bars     []ChartPoint     `json:"bars"`
	Live     *ChartPoint      `json:"live,omitempty"`
	Signals  []*models.Signal `json:"signals"`
}

// ChartUseCase renders lane snapshots into chart payloads.
type ChartUseCase struct {
	registry *engine.Registry
}

func NewChartUseCase(registry *engine.Registry) *ChartUseCase {
	return &ChartUseCase{registry: registry}
}

// Chart returns the last n sealed bars with EMA overlays plus the live bar
// and the lane's recent signals. Overlay series are recomputed from the
// retained window, so they match the bars exactly.
func (u *ChartUseCase) Chart(symbol string, interval models.Interval, n int) (*ChartData, error) {
	key := models.SymbolKey{Symbol: symbol, Interval: interval}
	snap, ok := u.registry.Snapshot(key)
	if !ok {
		return nil, xhttp.NotFoundErrorf("no active lane for %s", key)
	}

	eng := indicator.NewEngine()
	points := make([]ChartPoint, 0, len(snap.Bars))
	for _, b := range snap.Bars {
		set := eng.OnClosed(b)
		points = append(points, chartPoint(b, set))
	}
	if n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}

	data := &ChartData{
		Symbol:   symbol,
		Interval: interval,
		Bars:     points,
		Signals:  snap.Signals,
	}
	if snap.HasLive {
		p := chartPoint(snap.Live, eng.OnUpdated(snap.Live))
		data.Live = &p
	}
	return data, nil
}

// Clamp drops bars outside [from, to]. Zero bounds are open-ended.
func (d *ChartData) Clamp(from, to time.Time) {
	kept := d.Bars[:0]
	for _, p := range d.Bars {
		if !from.IsZero() && p.Time.Before(from) {
			continue
		}
		if !to.IsZero() && p.Time.After(to) {
			continue
		}
		kept = append(kept, p)
	}
	d.Bars = kept
	if d.Live != nil {
		if (!from.IsZero() && d.Live.Time.Before(from)) || (!to.IsZero() && d.Live.Time.After(to)) {
			d.Live = nil
		}
	}
}

func chartPoint(b models.Bar, set models.IndicatorSet) ChartPoint {
	p := ChartPoint{
		Time:   b.OpenTime,
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
	if set.EMA9.Defined {
		v := set.EMA9.Value
		p.EMA9 = &v
	}
	if set.EMA21.Defined {
		v := set.EMA21.Value
		p.EMA21 = &v
	}
	if set.EMA200.Defined {
		v := set.EMA200.Value
		p.EMA200 = &v
	}
	return p
}
