package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

type captureDispatcher struct {
	mu    sync.Mutex
	ticks []*models.Tick
}

func (d *captureDispatcher) Dispatch(t *models.Tick) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ticks = append(d.ticks, t)
}

func (d *captureDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ticks)
}

type countMetrics struct {
	mu      sync.Mutex
	dropped map[string]int
}

func newCountMetrics() *countMetrics { return &countMetrics{dropped: make(map[string]int)} }

func (m *countMetrics) RecordTick(string) {}
func (m *countMetrics) RecordTickDropped(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[reason]++
}
func (m *countMetrics) RecordBarSealed(string, string)  {}
func (m *countMetrics) RecordSignal(string, string)     {}
func (m *countMetrics) RecordPrediction(string)         {}
func (m *countMetrics) RecordError(string)              {}
func (m *countMetrics) RecordLastPrice(string, float64) {}
func (m *countMetrics) RecordLatency(string, float64)   {}
func (m *countMetrics) SetLaneStale(string, bool)       {}

func (m *countMetrics) count(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped[reason]
}

func validTick() *models.Tick {
	return &models.Tick{Symbol: "AAPL", Timestamp: time.Now().UnixMilli(), Price: 100, Volume: 1}
}

func TestProcessRejectsMalformedTicks(t *testing.T) {
	metrics := newCountMetrics()
	p := NewTickPipeline(&captureDispatcher{}, metrics)

	cases := []struct {
		name   string
		tick   *models.Tick
		reason string
	}{
		{"nil", nil, "nil"},
		{"empty symbol", &models.Tick{Timestamp: 1, Price: 1}, "empty_symbol"},
		{"zero timestamp", &models.Tick{Symbol: "AAPL", Price: 1}, "bad_timestamp"},
		{"zero price", &models.Tick{Symbol: "AAPL", Timestamp: 1}, "bad_price"},
		{"negative volume", &models.Tick{Symbol: "AAPL", Timestamp: 1, Price: 1, Volume: -1}, "negative_volume"},
	}
	for _, tc := range cases {
		if err := p.Process(context.Background(), tc.tick); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if got := metrics.count(tc.reason); got != 1 {
			t.Fatalf("%s: dropped[%s] = %d, want 1", tc.name, tc.reason, got)
		}
	}
}

func TestProcessForwardsToDispatcher(t *testing.T) {
	d := &captureDispatcher{}
	p := NewTickPipeline(d, newCountMetrics())
	ctx := context.Background()
	p.Start(ctx)
	defer p.Stop()

	if err := p.Process(ctx, validTick()); err != nil {
		t.Fatalf("process: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for d.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("tick never reached dispatcher")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestThrottleDropsBurst(t *testing.T) {
	metrics := newCountMetrics()
	p := NewTickPipeline(&captureDispatcher{}, metrics, WithMaxRPS(1))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := p.Process(ctx, validTick()); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if got := metrics.count("throttle"); got != 4 {
		t.Fatalf("throttled = %d, want 4", got)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	p := NewTickPipeline(&captureDispatcher{}, newCountMetrics())
	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx)
	p.Stop()
	p.Stop()
}
