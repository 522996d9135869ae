package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/domain/models"
)

func sealedBar(i int, close float64) models.Bar {
	return models.Bar{
		OpenTime: time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC).Add(time.Duration(i) * 5 * time.Minute),
		Open:     close,
		High:     close + 0.5,
		Low:      close - 0.5,
		Close:    close,
		Volume:   1000,
		Sealed:   true,
	}
}

func TestEMAConstantSeries(t *testing.T) {
	e := NewEngine()
	var set models.IndicatorSet
	for i := 0; i < 200; i++ {
		set = e.OnClosed(sealedBar(i, 50))
	}
	require.True(t, set.EMA200.Defined)
	assert.InDelta(t, 50.0, set.EMA200.Value, 1e-9)
	assert.InDelta(t, 50.0, set.EMA9.Value, 1e-9)
}

func TestEMAWarmupBoundary(t *testing.T) {
	e := NewEngine()
	var set models.IndicatorSet
	for i := 0; i < 8; i++ {
		set = e.OnClosed(sealedBar(i, float64(100+i)))
	}
	assert.False(t, set.EMA9.Defined, "EMA9 must stay undefined at 8 bars")

	set = e.OnClosed(sealedBar(8, 108))
	require.True(t, set.EMA9.Defined, "EMA9 must be defined at exactly 9 bars")
	// Seed is the simple average of the first 9 closes.
	assert.InDelta(t, 104.0, set.EMA9.Value, 1e-9)
}

func TestEMARecursionAfterSeed(t *testing.T) {
	e := NewEMA(9)
	for i := 0; i < 9; i++ {
		e.Update(104)
	}
	e.Update(113)
	v, ok := e.Value()
	require.True(t, ok)
	k := 2.0 / 10.0
	assert.InDelta(t, 104+k*(113-104), v, 1e-9)
}

func TestRSIWarmupAndExtremes(t *testing.T) {
	e := NewEngine()
	var set models.IndicatorSet
	for i := 0; i < 13; i++ {
		set = e.OnClosed(sealedBar(i, float64(100+i)))
	}
	assert.False(t, set.RSI14.Defined, "RSI must stay undefined at 13 bars")

	set = e.OnClosed(sealedBar(13, 113))
	require.True(t, set.RSI14.Defined, "RSI must be defined at exactly 14 bars")
	// Monotonically rising closes: no losses, RSI pinned at 100.
	assert.InDelta(t, 100.0, set.RSI14.Value, 1e-9)
}

func TestATRWarmupAndValue(t *testing.T) {
	e := NewEngine()
	var set models.IndicatorSet
	for i := 0; i < 14; i++ {
		set = e.OnClosed(sealedBar(i, 100))
	}
	require.True(t, set.ATR14.Defined, "ATR must be defined at exactly 14 bars")
	// Constant bars with a fixed 1.0 range.
	assert.InDelta(t, 1.0, set.ATR14.Value, 1e-9)
}

func TestLivePeekDoesNotMutate(t *testing.T) {
	e := NewEngine()
	var confirmed models.IndicatorSet
	for i := 0; i < 30; i++ {
		confirmed = e.OnClosed(sealedBar(i, 100+math.Sin(float64(i))))
	}

	live := sealedBar(30, 140)
	live.Sealed = false
	peek := e.OnUpdated(live)
	require.True(t, peek.EMA9.Defined)
	assert.NotEqual(t, confirmed.EMA9.Value, peek.EMA9.Value)

	// Confirmed state must be byte-for-byte what it was before the peek.
	assert.Equal(t, confirmed, e.Confirmed())
}

func TestReplayDeterminism(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/7)
	}

	run := func() models.IndicatorSet {
		e := NewEngine()
		var set models.IndicatorSet
		for i, c := range closes {
			set = e.OnClosed(sealedBar(i, c))
		}
		return set
	}
	assert.Equal(t, run(), run())
}

func TestSupertrendFlipsOnStrictCross(t *testing.T) {
	st := NewSupertrend(3.0, 10)
	// Establish an uptrend.
	for i := 0; i < 20; i++ {
		c := 100 + float64(i)
		st.Update(c+1, c-1, c)
	}
	state := st.State()
	require.True(t, state.Defined)
	assert.Equal(t, models.TrendBullish, state.Direction)
	assert.Less(t, state.Value, 120.0, "bullish line sits below price")

	// Crash through the lower band.
	st.Update(100, 80, 81)
	st.Update(82, 60, 61)
	state = st.State()
	assert.Equal(t, models.TrendBearish, state.Direction)
	assert.Greater(t, state.Value, 61.0, "bearish line sits above price")
}

func TestBollingerBandsOrdering(t *testing.T) {
	e := NewEngine()
	var set models.IndicatorSet
	for i := 0; i < 25; i++ {
		set = e.OnClosed(sealedBar(i, 100+math.Sin(float64(i))))
	}
	require.True(t, set.BBUpper.Defined)
	assert.Greater(t, set.BBUpper.Value, set.BBMiddle.Value)
	assert.Less(t, set.BBLower.Value, set.BBMiddle.Value)
}

func TestMACDDefinedAfterSlowPlusSignal(t *testing.T) {
	e := NewEngine()
	var set models.IndicatorSet
	for i := 0; i < 33; i++ {
		set = e.OnClosed(sealedBar(i, float64(100+i%5)))
	}
	assert.False(t, set.MACD.Defined, "MACD signal needs 26+9-1 bars")
	set = e.OnClosed(sealedBar(33, 103))
	assert.True(t, set.MACD.Defined)
	assert.True(t, set.MACDHist.Defined)
}
