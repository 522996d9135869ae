// Package engine runs one goroutine per (symbol, interval) lane. A lane owns
// its bar and indicator state exclusively; everything downstream sees only
// immutable snapshots handed off at bar-event boundaries.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"TradePulse/internal/aggregation"
	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/indicator"
	"TradePulse/internal/strategy"
	"TradePulse/internal/target"
	"TradePulse/pkg/logger"
)

// Snapshot is the read-side view of a lane.
type Snapshot struct {
	Key        models.SymbolKey
	Bars       []models.Bar
	Live       models.Bar
	HasLive    bool
	Indicators models.IndicatorSet
	LastTick   time.Time
	Stale      bool
	Signals    []*models.Signal
}

// laneSignalTail bounds the per-lane signal history kept for predictions.
const laneSignalTail = 50

type laneDeps struct {
	store   domrepo.BarStore
	pub     domrepo.Publisher
	metrics domrepo.Metrics
	log     *logger.Logger
	feed    *Feed
	eval    *strategy.Evaluator
}

// Lane is the single writer for one SymbolKey.
type Lane struct {
	key   models.SymbolKey
	agg   *aggregation.Aggregator
	ind   *indicator.Engine
	deps  laneDeps
	quiet time.Duration

	ticks  chan *models.Tick
	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

func newLane(key models.SymbolKey, deps laneDeps, retention, buffer int, quiet time.Duration) *Lane {
	if buffer <= 0 {
		buffer = 256
	}
	return &Lane{
		key:   key,
		agg:   aggregation.New(key, retention),
		ind:   indicator.NewEngine(),
		deps:  deps,
		quiet: quiet,
		ticks: make(chan *models.Tick, buffer),
		done:  make(chan struct{}),
		snap:  Snapshot{Key: key},
	}
}

// bootstrap replays persisted sealed bars through the aggregator and
// indicator engine before the lane accepts live ticks.
func (l *Lane) bootstrap(ctx context.Context) {
	bars, err := l.deps.store.LoadRecent(ctx, l.key, aggregation.DefaultRetention)
	if err != nil {
		l.deps.log.Warn("lane bootstrap failed, starting cold",
			logger.String("key", l.key.String()), logger.Error(err))
		l.deps.metrics.RecordError("bootstrap")
		return
	}
	l.agg.Seed(bars)
	var set models.IndicatorSet
	for _, b := range bars {
		set = l.ind.OnClosed(b)
	}
	l.mu.Lock()
	l.snap.Bars = l.agg.History()
	l.snap.Indicators = set
	l.mu.Unlock()
	l.deps.log.Info("lane bootstrapped",
		logger.String("key", l.key.String()), logger.Int("bars", len(bars)))
}

func (l *Lane) start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	go l.run(ctx)
}

// Enqueue hands a tick to the lane without blocking. A full buffer drops
// the tick and reports false.
func (l *Lane) Enqueue(t *models.Tick) bool {
	select {
	case l.ticks <- t:
		return true
	default:
		l.deps.metrics.RecordTickDropped("lane_buffer_full")
		return false
	}
}

// Snapshot returns a copy of the lane's current state.
func (l *Lane) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snap := l.snap
	snap.Bars = append([]models.Bar(nil), l.snap.Bars...)
	snap.Signals = append([]*models.Signal(nil), l.snap.Signals...)
	return snap
}

func (l *Lane) stop() {
	if l.cancel != nil {
		l.cancel()
	}
	<-l.done
}

func (l *Lane) run(ctx context.Context) {
	defer close(l.done)

	quiet := l.quiet
	if quiet <= 0 {
		quiet = 5 * time.Minute
	}
	timer := time.NewTimer(quiet)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.flush(context.Background())
			return
		case t := <-l.ticks:
			if t == nil {
				continue
			}
			l.processTick(ctx, t)
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(quiet)
			l.setStale(false)
		case <-timer.C:
			l.markQuiet()
			timer.Reset(quiet)
		}
	}
}

func (l *Lane) processTick(ctx context.Context, t *models.Tick) {
	start := time.Now()
	events, err := l.agg.Ingest(t)
	if err != nil {
		if errors.Is(err, aggregation.ErrStaleTick) {
			l.deps.metrics.RecordTickDropped("out_of_order")
			return
		}
		l.deps.metrics.RecordError("ingest")
		return
	}
	l.deps.metrics.RecordTick(t.Symbol)

	for _, ev := range events {
		switch ev.Kind {
		case models.BarClosed:
			l.onClosed(ctx, ev)
		case models.BarUpdated:
			l.onUpdated(ev)
		}
	}
	l.deps.metrics.RecordLatency("lane_tick", time.Since(start).Seconds())
}

func (l *Lane) onUpdated(ev models.BarEvent) {
	set := l.ind.OnUpdated(ev.Bar)
	l.mu.Lock()
	l.snap.Live = ev.Bar
	l.snap.HasLive = true
	l.snap.Indicators = set
	l.snap.LastTick = time.Now()
	l.mu.Unlock()
}

func (l *Lane) onClosed(ctx context.Context, ev models.BarEvent) {
	set := l.ind.OnClosed(ev.Bar)
	l.deps.metrics.RecordBarSealed(l.key.Symbol, string(l.key.Interval))

	if err := l.deps.store.Append(ctx, l.key, ev.Bar); err != nil {
		l.deps.log.Warn("bar append failed",
			logger.String("key", l.key.String()), logger.Error(err))
		l.deps.metrics.RecordError("bar_append")
	}
	if err := l.deps.pub.PublishBar(ctx, l.key, ev.Bar); err != nil {
		l.deps.metrics.RecordError("publish_bar")
	}

	signals := l.deps.eval.Evaluate(l.key, ev.Bar, set)
	for _, sig := range signals {
		sig.Target = target.Compute(sig.Side, sig.EntryPrice, set.ATR14, set.ATRAvg20, l.key.Interval)
		l.deps.feed.Add(sig)
		l.deps.metrics.RecordSignal(string(sig.Strategy), string(sig.Side))
		if err := l.deps.pub.PublishSignal(ctx, sig); err != nil {
			l.deps.metrics.RecordError("publish_signal")
		}
		l.deps.log.Info("signal",
			logger.String("key", l.key.String()),
			logger.String("strategy", string(sig.Strategy)),
			logger.String("side", string(sig.Side)),
			logger.Any("entry", sig.EntryPrice))
	}

	l.mu.Lock()
	l.snap.Bars = l.agg.History()
	l.snap.HasLive = false
	l.snap.Indicators = set
	l.snap.LastTick = time.Now()
	l.snap.Signals = append(l.snap.Signals, signals...)
	if len(l.snap.Signals) > laneSignalTail {
		l.snap.Signals = l.snap.Signals[len(l.snap.Signals)-laneSignalTail:]
	}
	l.mu.Unlock()
}

// flush seals the live bar on shutdown so its data is not lost.
func (l *Lane) flush(ctx context.Context) {
	ev, ok := l.agg.Flush()
	if !ok {
		return
	}
	l.onClosed(ctx, ev)
}

func (l *Lane) setStale(stale bool) {
	l.mu.Lock()
	changed := l.snap.Stale != stale
	l.snap.Stale = stale
	l.mu.Unlock()
	if changed {
		l.deps.metrics.SetLaneStale(l.key.String(), stale)
	}
}

// markQuiet flags the lane when the market is open but no ticks arrive.
// The live bar is left as-is; quiet periods never force a close.
func (l *Lane) markQuiet() {
	if !marketOpen(l.key.Symbol) {
		l.setStale(false)
		return
	}
	l.setStale(true)
	l.deps.metrics.RecordError("lane_quiet")
	l.deps.log.Warn("no ticks within quiet period", logger.String("key", l.key.String()))
}
