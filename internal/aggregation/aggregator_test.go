package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/domain/models"
)

var testKey = models.SymbolKey{Symbol: "AAPL", Interval: models.Interval5m}

func tick(ts time.Time, price, volume float64) *models.Tick {
	return &models.Tick{Symbol: "AAPL", Timestamp: ts.UnixMilli(), Price: price, Volume: volume}
}

// Wednesday, in NYSE session (14:30 UTC = 09:30/10:30 New York).
var sessionTime = time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

func TestBarFromTickSequence(t *testing.T) {
	a := New(testKey, DefaultRetention)

	prices := []float64{100, 102, 99, 101}
	for i, p := range prices {
		_, err := a.Ingest(tick(sessionTime.Add(time.Duration(i)*time.Second), p, 10))
		require.NoError(t, err)
	}

	bar, ok := a.Live()
	require.True(t, ok)
	assert.Equal(t, 100.0, bar.Open)
	assert.Equal(t, 102.0, bar.High)
	assert.Equal(t, 99.0, bar.Low)
	assert.Equal(t, 101.0, bar.Close)
	assert.Equal(t, 40.0, bar.Volume)
	assert.False(t, bar.Sealed)
}

func TestWindowRolloverSealsBar(t *testing.T) {
	a := New(testKey, DefaultRetention)

	_, err := a.Ingest(tick(sessionTime, 100, 1))
	require.NoError(t, err)

	events, err := a.Ingest(tick(sessionTime.Add(5*time.Minute), 105, 2))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, models.BarClosed, events[0].Kind)
	assert.True(t, events[0].Bar.Sealed)
	assert.Equal(t, 100.0, events[0].Bar.Close)

	assert.Equal(t, models.BarUpdated, events[1].Kind)
	assert.Equal(t, 105.0, events[1].Bar.Open)
	assert.False(t, events[1].Bar.Sealed)

	// Sealed bar lands in history untouched.
	hist := a.History()
	require.Len(t, hist, 1)
	assert.Equal(t, events[0].Bar, hist[0])
}

func TestStaleAndDuplicateTicksDropped(t *testing.T) {
	a := New(testKey, DefaultRetention)

	_, err := a.Ingest(tick(sessionTime.Add(10*time.Second), 100, 1))
	require.NoError(t, err)
	before, _ := a.Live()

	// Older timestamp.
	_, err = a.Ingest(tick(sessionTime, 999, 1))
	assert.ErrorIs(t, err, ErrStaleTick)

	// Exact duplicate timestamp.
	_, err = a.Ingest(tick(sessionTime.Add(10*time.Second), 999, 1))
	assert.ErrorIs(t, err, ErrStaleTick)

	after, _ := a.Live()
	assert.Equal(t, before, after, "dropped ticks must not change state")
}

func TestSealedBarsHoldOHLCInvariant(t *testing.T) {
	a := New(testKey, DefaultRetention)

	prices := []float64{100, 104, 97, 101, 103, 99, 102}
	for i, p := range prices {
		_, err := a.Ingest(tick(sessionTime.Add(time.Duration(i)*2*time.Minute), p, 5))
		require.NoError(t, err)
	}
	a.Flush()

	for _, bar := range a.History() {
		assert.LessOrEqual(t, bar.Low, bar.Open)
		assert.LessOrEqual(t, bar.Low, bar.Close)
		assert.GreaterOrEqual(t, bar.High, bar.Open)
		assert.GreaterOrEqual(t, bar.High, bar.Close)
	}
}

func TestSessionAlignedWindows(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	key := models.SymbolKey{Symbol: "RELIANCE.NS", Interval: models.Interval5m}
	a := New(key, DefaultRetention)

	// 09:17 IST belongs to the 09:15 window, not a 09:20 UTC-truncated one.
	at := time.Date(2026, 8, 26, 9, 17, 0, 0, ist)
	_, err = a.Ingest(&models.Tick{Symbol: key.Symbol, Timestamp: at.UnixMilli(), Price: 100, Volume: 1})
	require.NoError(t, err)

	bar, ok := a.Live()
	require.True(t, ok)
	local := bar.OpenTime.In(ist)
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, 15, local.Minute())
}

func TestDailyPreOpenTickOpensCurrentDay(t *testing.T) {
	key := models.SymbolKey{Symbol: "AAPL", Interval: models.Interval1d}
	a := New(key, DefaultRetention)

	// 13:00 UTC is 09:00 New York, before the 09:30 open. The daily bar
	// must open at the UTC day start, never at a future session open.
	at := time.Date(2026, 8, 26, 13, 0, 0, 0, time.UTC)
	_, err := a.Ingest(&models.Tick{Symbol: key.Symbol, Timestamp: at.UnixMilli(), Price: 100, Volume: 1})
	require.NoError(t, err)

	bar, ok := a.Live()
	require.True(t, ok)
	assert.Equal(t, at.Truncate(24*time.Hour), bar.OpenTime)
	assert.False(t, bar.OpenTime.After(at), "bar cannot open after its first tick")
}

func TestRetentionBound(t *testing.T) {
	a := New(testKey, DefaultRetention)

	at := sessionTime
	for i := 0; i < DefaultRetention+50; i++ {
		_, err := a.Ingest(tick(at, 100+float64(i%3), 1))
		require.NoError(t, err)
		at = at.Add(5 * time.Minute)
	}
	assert.Equal(t, DefaultRetention, len(a.History()))
}

func TestSeedBlocksOlderTicks(t *testing.T) {
	a := New(testKey, DefaultRetention)
	seed := []models.Bar{
		{OpenTime: sessionTime, Open: 100, High: 101, Low: 99, Close: 100, Volume: 10},
	}
	a.Seed(seed)
	assert.Len(t, a.History(), 1)

	// A tick inside the seeded bar's window is stale.
	_, err := a.Ingest(tick(sessionTime.Add(time.Minute), 100, 1))
	assert.ErrorIs(t, err, ErrStaleTick)

	// A tick after the seeded window is accepted.
	_, err = a.Ingest(tick(sessionTime.Add(5*time.Minute), 100, 1))
	assert.NoError(t, err)
}
