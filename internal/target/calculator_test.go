package target

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/domain/models"
)

func TestBuyTargets(t *testing.T) {
	tgt := Compute(models.SideBuy, 100, models.Defined(2), models.Defined(2), models.Interval5m)
	require.NotNil(t, tgt)

	assert.InDelta(t, 102.0, tgt.TP1, 1e-9)
	assert.InDelta(t, 104.0, tgt.TP2, 1e-9)
	assert.InDelta(t, 98.0, tgt.SL, 1e-9)

	// BUY ordering: TP2 > TP1 > entry > SL.
	assert.Greater(t, tgt.TP2, tgt.TP1)
	assert.Greater(t, tgt.TP1, 100.0)
	assert.Greater(t, 100.0, tgt.SL)
}

func TestSellTargetsMirror(t *testing.T) {
	tgt := Compute(models.SideSell, 100, models.Defined(2), models.Defined(2), models.Interval5m)
	require.NotNil(t, tgt)

	assert.InDelta(t, 98.0, tgt.TP1, 1e-9)
	assert.InDelta(t, 96.0, tgt.TP2, 1e-9)
	assert.InDelta(t, 102.0, tgt.SL, 1e-9)

	// SELL ordering: SL > entry > TP1 > TP2.
	assert.Greater(t, tgt.SL, 100.0)
	assert.Greater(t, 100.0, tgt.TP1)
	assert.Greater(t, tgt.TP1, tgt.TP2)
}

func TestUndefinedATRMeansNoTarget(t *testing.T) {
	assert.Nil(t, Compute(models.SideBuy, 100, models.Undefined(), models.Undefined(), models.Interval5m))
}

func TestETAUsesAverageATRVelocity(t *testing.T) {
	// Distance to TP1 equals the spot ATR (4), but velocity comes from the
	// 20-bar mean (2): 4/2 * 1.4 = 2.8 bars of 5 minutes.
	tgt := Compute(models.SideBuy, 100, models.Defined(4), models.Defined(2), models.Interval5m)
	require.NotNil(t, tgt)
	assert.InDelta(t, 2.8, tgt.ETABars, 1e-9)
	assert.Equal(t, time.Duration(2.8*5*float64(time.Minute)), tgt.ETA)
}

func TestETAFloor(t *testing.T) {
	// 1.4 bars of one minute is under the floor.
	tgt := Compute(models.SideBuy, 100, models.Defined(1), models.Defined(1), models.Interval1m)
	require.NotNil(t, tgt)
	assert.Equal(t, 5*time.Minute, tgt.ETA)
	assert.False(t, tgt.Unbounded)
}

func TestETACapReportsUnbounded(t *testing.T) {
	// Tiny average velocity pushes the estimate past four weeks.
	tgt := Compute(models.SideBuy, 100, models.Defined(10), models.Defined(0.0001), models.Interval1d)
	require.NotNil(t, tgt)
	assert.True(t, tgt.Unbounded)
	assert.Equal(t, 4*7*24*time.Hour, tgt.ETA)
}

func TestDailyBarsCountTradingMinutes(t *testing.T) {
	// One bar at 1d is one 390-minute session, not 24 hours.
	tgt := Compute(models.SideBuy, 100, models.Defined(2), models.Defined(2.8), models.Interval1d)
	require.NotNil(t, tgt)
	assert.InDelta(t, 1.0, tgt.ETABars, 1e-9)
	assert.Equal(t, time.Duration(390*float64(time.Minute)), tgt.ETA)
}
