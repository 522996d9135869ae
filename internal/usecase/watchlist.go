package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/engine"
	"TradePulse/pkg/logger"
)

// Watchlist drives lane lifecycle: watching a symbol starts its lanes,
// unwatching stops them. Durable storage is an external concern; the list
// lives in memory and reseeds from config on boot.
type Watchlist struct {
	registry  *engine.Registry
	subscribe func(ctx context.Context, symbol string) error
	log       *logger.Logger

	mu      sync.Mutex
	entries map[string][]models.Interval
}

func NewWatchlist(registry *engine.Registry, log *logger.Logger) *Watchlist {
	return &Watchlist{
		registry: registry,
		log:      log,
		entries:  make(map[string][]models.Interval),
	}
}

// OnAdd registers a hook run after a new symbol joins, e.g. a stream
// subscribe.
func (w *Watchlist) OnAdd(fn func(ctx context.Context, symbol string) error) {
	w.subscribe = fn
}

// Seed watches the configured boot set. Errors are logged per entry, not
// fatal.
func (w *Watchlist) Seed(ctx context.Context, symbols []string, intervals []models.Interval) {
	for _, s := range symbols {
		for _, iv := range intervals {
			if err := w.Add(ctx, s, iv); err != nil {
				w.log.Warn("watchlist seed entry failed",
					logger.String("symbol", s), logger.String("interval", string(iv)), logger.Error(err))
			}
		}
	}
}

// Add watches (symbol, interval) and starts its lane.
func (w *Watchlist) Add(ctx context.Context, symbol string, interval models.Interval) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	key := models.SymbolKey{Symbol: symbol, Interval: interval}
	if err := w.registry.Add(ctx, key); err != nil {
		return fmt.Errorf("start lane %s: %w", key, err)
	}

	w.mu.Lock()
	ivs := w.entries[symbol]
	known := false
	for _, iv := range ivs {
		if iv == interval {
			known = true
			break
		}
	}
	newSymbol := len(ivs) == 0
	if !known {
		w.entries[symbol] = append(ivs, interval)
	}
	w.mu.Unlock()

	if newSymbol && w.subscribe != nil {
		if err := w.subscribe(ctx, symbol); err != nil {
			w.log.Warn("stream subscribe failed", logger.String("symbol", symbol), logger.Error(err))
		}
	}
	return nil
}

// Remove unwatches a symbol entirely and stops all its lanes.
func (w *Watchlist) Remove(symbol string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	w.mu.Lock()
	ivs, ok := w.entries[symbol]
	delete(w.entries, symbol)
	w.mu.Unlock()
	if !ok {
		return
	}
	for _, iv := range ivs {
		w.registry.Remove(models.SymbolKey{Symbol: symbol, Interval: iv})
	}
}

// Entry is one watched symbol and its intervals.
type Entry struct {
	Symbol    string            `json:"symbol"`
	Intervals []models.Interval `json:"intervals"`
}

// List returns the watched set sorted by symbol.
func (w *Watchlist) List() []Entry {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Entry, 0, len(w.entries))
	for s, ivs := range w.entries {
		out = append(out, Entry{Symbol: s, Intervals: append([]models.Interval(nil), ivs...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Contains reports whether the symbol is watched.
func (w *Watchlist) Contains(symbol string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entries[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}
