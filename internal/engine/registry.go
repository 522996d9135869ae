package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/marketclock"
	"TradePulse/internal/strategy"
	"TradePulse/pkg/logger"
)

// Config tunes lane behavior.
type Config struct {
	Retention   int           `yaml:"retention"`
	TickBuffer  int           `yaml:"tick_buffer"`
	QuietPeriod time.Duration `yaml:"quiet_period"`
}

// Registry owns the lane set and routes ticks by symbol. Lane lifecycle
// follows the watchlist: adding a key starts a lane, removing it cancels
// the lane after in-flight work finishes.
type Registry struct {
	cfg     Config
	store   domrepo.BarStore
	pub     domrepo.Publisher
	metrics domrepo.Metrics
	log     *logger.Logger
	feed    *Feed
	eval    *strategy.Evaluator

	// laneCtx outlives any caller context; lanes stop on Remove/Shutdown,
	// never because the request that added them ended.
	laneCtx    context.Context
	laneCancel context.CancelFunc

	mu    sync.RWMutex
	lanes map[models.SymbolKey]*Lane
}

func NewRegistry(cfg Config, store domrepo.BarStore, pub domrepo.Publisher,
	metrics domrepo.Metrics, log *logger.Logger, feed *Feed) *Registry {
	laneCtx, laneCancel := context.WithCancel(context.Background())
	return &Registry{
		cfg:        cfg,
		store:      store,
		pub:        pub,
		metrics:    metrics,
		log:        log,
		feed:       feed,
		eval:       strategy.NewEvaluator(),
		laneCtx:    laneCtx,
		laneCancel: laneCancel,
		lanes:      make(map[models.SymbolKey]*Lane),
	}
}

// Evaluator exposes the strategy set for the catalog endpoint.
func (r *Registry) Evaluator() *strategy.Evaluator { return r.eval }

// Feed exposes the shared signal ring.
func (r *Registry) Feed() *Feed { return r.feed }

// Add bootstraps and starts a lane for the key. Adding an existing key is
// a no-op.
func (r *Registry) Add(ctx context.Context, key models.SymbolKey) error {
	if !models.IsValidInterval(key.Interval) {
		return fmt.Errorf("unsupported interval %q", key.Interval)
	}
	r.mu.Lock()
	if _, ok := r.lanes[key]; ok {
		r.mu.Unlock()
		return nil
	}
	l := newLane(key, laneDeps{
		store:   r.store,
		pub:     r.pub,
		metrics: r.metrics,
		log:     r.log,
		feed:    r.feed,
		eval:    r.eval,
	}, r.cfg.Retention, r.cfg.TickBuffer, r.cfg.QuietPeriod)
	r.lanes[key] = l
	r.mu.Unlock()

	l.bootstrap(ctx)
	l.start(r.laneCtx)
	r.log.Info("lane started", logger.String("key", key.String()))
	return nil
}

// Remove stops the lane and drops it from the registry.
func (r *Registry) Remove(key models.SymbolKey) {
	r.mu.Lock()
	l, ok := r.lanes[key]
	if ok {
		delete(r.lanes, key)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	l.stop()
	r.log.Info("lane stopped", logger.String("key", key.String()))
}

// Dispatch routes one tick to every lane watching its symbol. Ticks for
// symbols without a lane are dropped and counted.
func (r *Registry) Dispatch(t *models.Tick) {
	r.mu.RLock()
	var matched bool
	for key, l := range r.lanes {
		if key.Symbol == t.Symbol {
			matched = true
			l.Enqueue(t)
		}
	}
	r.mu.RUnlock()
	if !matched {
		r.metrics.RecordTickDropped("no_lane")
	}
}

// Snapshot returns the lane view for a key.
func (r *Registry) Snapshot(key models.SymbolKey) (Snapshot, bool) {
	r.mu.RLock()
	l, ok := r.lanes[key]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}
	return l.Snapshot(), true
}

// Keys lists the active lanes.
func (r *Registry) Keys() []models.SymbolKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.SymbolKey, 0, len(r.lanes))
	for key := range r.lanes {
		out = append(out, key)
	}
	return out
}

// Symbols lists the distinct symbols across active lanes.
func (r *Registry) Symbols() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, key := range r.Keys() {
		if _, ok := seen[key.Symbol]; ok {
			continue
		}
		seen[key.Symbol] = struct{}{}
		out = append(out, key.Symbol)
	}
	return out
}

// Shutdown stops every lane, sealing live bars.
func (r *Registry) Shutdown() {
	for _, key := range r.Keys() {
		r.Remove(key)
	}
	r.laneCancel()
}

func marketOpen(symbol string) bool {
	return marketclock.IsOpen(marketclock.ExchangeForSymbol(symbol), time.Now())
}
