package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/engine"
	"TradePulse/internal/prediction"
	"TradePulse/internal/service/cache"
	"TradePulse/pkg/logger"
)

type stubStore struct {
	mu   sync.Mutex
	seed map[models.SymbolKey][]models.Bar
}

func (s *stubStore) Init(context.Context) error   { return nil }
func (s *stubStore) Health(context.Context) error { return nil }
func (s *stubStore) Close() error                 { return nil }
func (s *stubStore) Append(context.Context, models.SymbolKey, models.Bar) error {
	return nil
}
func (s *stubStore) LoadRecent(_ context.Context, key models.SymbolKey, _ int) ([]models.Bar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed[key], nil
}

type stubPublisher struct {
	mu          sync.Mutex
	predictions int
}

func (p *stubPublisher) PublishBar(context.Context, models.SymbolKey, models.Bar) error { return nil }
func (p *stubPublisher) PublishSignal(context.Context, *models.Signal) error            { return nil }
func (p *stubPublisher) PublishPrediction(context.Context, *models.Prediction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.predictions++
	return nil
}
func (p *stubPublisher) Close() error { return nil }

type stubMetrics struct{}

func (stubMetrics) RecordTick(string)               {}
func (stubMetrics) RecordTickDropped(string)        {}
func (stubMetrics) RecordBarSealed(string, string)  {}
func (stubMetrics) RecordSignal(string, string)     {}
func (stubMetrics) RecordPrediction(string)         {}
func (stubMetrics) RecordError(string)              {}
func (stubMetrics) RecordLastPrice(string, float64) {}
func (stubMetrics) RecordLatency(string, float64)   {}
func (stubMetrics) SetLaneStale(string, bool)       {}

type stubSentiment struct {
	score models.SentimentScore
	ok    bool
	err   error
}

func (s stubSentiment) Latest(context.Context, string) (models.SentimentScore, bool, error) {
	return s.score, s.ok, s.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func seededBars(n int, close float64) []models.Bar {
	start := time.Date(2026, 8, 26, 14, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			OpenTime: start.Add(time.Duration(i) * 5 * time.Minute),
			Open:     close, High: close + 1, Low: close - 1, Close: close, Volume: 100,
			Sealed: true,
		}
	}
	return bars
}

func newTestRegistry(t *testing.T, store *stubStore) *engine.Registry {
	t.Helper()
	return engine.NewRegistry(engine.Config{QuietPeriod: time.Hour}, store,
		&stubPublisher{}, stubMetrics{}, testLogger(t), engine.NewFeed(0))
}

func TestWatchlistAddStartsLanes(t *testing.T) {
	reg := newTestRegistry(t, &stubStore{})
	defer reg.Shutdown()
	wl := NewWatchlist(reg, testLogger(t))

	ctx := context.Background()
	require.NoError(t, wl.Add(ctx, "aapl", models.Interval5m))
	require.NoError(t, wl.Add(ctx, "AAPL", models.Interval1h))

	assert.True(t, wl.Contains("AAPL"))
	assert.Len(t, reg.Keys(), 2)

	list := wl.List()
	require.Len(t, list, 1)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Len(t, list[0].Intervals, 2)
}

func TestWatchlistRemoveStopsAllLanes(t *testing.T) {
	reg := newTestRegistry(t, &stubStore{})
	defer reg.Shutdown()
	wl := NewWatchlist(reg, testLogger(t))

	ctx := context.Background()
	require.NoError(t, wl.Add(ctx, "AAPL", models.Interval5m))
	require.NoError(t, wl.Add(ctx, "AAPL", models.Interval1h))

	wl.Remove("AAPL")
	assert.False(t, wl.Contains("AAPL"))
	assert.Empty(t, reg.Keys())
}

func TestWatchlistSubscribeHookFiresOncePerSymbol(t *testing.T) {
	reg := newTestRegistry(t, &stubStore{})
	defer reg.Shutdown()
	wl := NewWatchlist(reg, testLogger(t))

	var calls []string
	wl.OnAdd(func(_ context.Context, symbol string) error {
		calls = append(calls, symbol)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, wl.Add(ctx, "AAPL", models.Interval5m))
	require.NoError(t, wl.Add(ctx, "AAPL", models.Interval1h))
	assert.Equal(t, []string{"AAPL"}, calls)
}

func TestPredictUsesLaneSnapshotAndSentiment(t *testing.T) {
	key := models.SymbolKey{Symbol: "AAPL", Interval: models.Interval5m}
	store := &stubStore{seed: map[models.SymbolKey][]models.Bar{key: seededBars(30, 100)}}
	reg := newTestRegistry(t, store)
	defer reg.Shutdown()
	require.NoError(t, reg.Add(context.Background(), key))

	pub := &stubPublisher{}
	uc := NewPredictUseCase(reg, prediction.NewEngine(prediction.DefaultConfig()),
		stubSentiment{score: models.SentimentScore{Symbol: "AAPL", Score: 80}, ok: true},
		pub, stubMetrics{}, cache.NewTTLCache(), testLogger(t))

	p, err := uc.Predict(context.Background(), "AAPL", models.Interval5m)
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.Sentiment)
	assert.Equal(t, "AAPL", p.Symbol)

	pub.mu.Lock()
	published := pub.predictions
	pub.mu.Unlock()
	assert.Equal(t, 1, published)
}

func TestPredictCachesResponse(t *testing.T) {
	key := models.SymbolKey{Symbol: "AAPL", Interval: models.Interval5m}
	store := &stubStore{seed: map[models.SymbolKey][]models.Bar{key: seededBars(30, 100)}}
	reg := newTestRegistry(t, store)
	defer reg.Shutdown()
	require.NoError(t, reg.Add(context.Background(), key))

	pub := &stubPublisher{}
	uc := NewPredictUseCase(reg, prediction.NewEngine(prediction.DefaultConfig()),
		stubSentiment{ok: false}, pub, stubMetrics{}, cache.NewTTLCache(), testLogger(t))

	ctx := context.Background()
	_, err := uc.Predict(ctx, "AAPL", models.Interval5m)
	require.NoError(t, err)
	_, err = uc.Predict(ctx, "AAPL", models.Interval5m)
	require.NoError(t, err)

	pub.mu.Lock()
	published := pub.predictions
	pub.mu.Unlock()
	assert.Equal(t, 1, published, "second call must come from cache")
}

func TestPredictUnknownLaneIs404(t *testing.T) {
	reg := newTestRegistry(t, &stubStore{})
	defer reg.Shutdown()

	uc := NewPredictUseCase(reg, prediction.NewEngine(prediction.DefaultConfig()),
		stubSentiment{}, &stubPublisher{}, stubMetrics{}, cache.NewTTLCache(), testLogger(t))
	_, err := uc.Predict(context.Background(), "NOPE", models.Interval5m)
	assert.Error(t, err)
}

func TestChartReturnsOverlaysMatchingBars(t *testing.T) {
	key := models.SymbolKey{Symbol: "AAPL", Interval: models.Interval5m}
	store := &stubStore{seed: map[models.SymbolKey][]models.Bar{key: seededBars(40, 50)}}
	reg := newTestRegistry(t, store)
	defer reg.Shutdown()
	require.NoError(t, reg.Add(context.Background(), key))

	uc := NewChartUseCase(reg)
	data, err := uc.Chart("AAPL", models.Interval5m, 10)
	require.NoError(t, err)
	require.Len(t, data.Bars, 10)

	last := data.Bars[len(data.Bars)-1]
	require.NotNil(t, last.EMA9, "EMA9 defined after 40 constant bars")
	assert.InDelta(t, 50.0, *last.EMA9, 1e-9)
	assert.Nil(t, last.EMA200, "EMA200 needs 200 bars")
}
