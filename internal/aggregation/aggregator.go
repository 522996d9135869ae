// Package aggregation turns a tick stream into OHLCV bars for one
// (symbol, interval) lane. Bars align to the exchange session, sealed bars
// are immutable and retained in an append-only window.
package aggregation

import (
	"errors"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/marketclock"
)

// ErrStaleTick marks a tick at or before the last applied timestamp.
// Callers drop and count it; lane state is untouched.
var ErrStaleTick = errors.New("tick is stale or out of order")

// DefaultRetention keeps enough sealed bars for the slowest indicator
// (200-period EMA) plus margin.
const DefaultRetention = 250

// Aggregator is the live-bar state machine for one SymbolKey. Not safe for
// concurrent use; each lane owns exactly one.
type Aggregator struct {
	key       models.SymbolKey
	exchange  string
	retention int

	cur       *models.Bar
	lastTS    int64
	hasTicked bool
	history   []models.Bar
}

func New(key models.SymbolKey, retention int) *Aggregator {
	if retention < DefaultRetention {
		retention = DefaultRetention
	}
	return &Aggregator{
		key:       key,
		exchange:  marketclock.ExchangeForSymbol(key.Symbol),
		retention: retention,
		history:   make([]models.Bar, 0, retention),
	}
}

// Seed preloads sealed historical bars, oldest first. The live bar starts
// fresh on the first tick.
func (a *Aggregator) Seed(bars []models.Bar) {
	for _, b := range bars {
		b.Sealed = true
		a.append(b)
	}
	if n := len(bars); n > 0 {
		a.lastTS = bars[n-1].OpenTime.Add(a.key.Interval.Duration()).UnixMilli() - 1
		a.hasTicked = true
	}
}

// Ingest applies one tick and returns the resulting bar events: an Updated
// event for an in-window tick, or Closed followed by Updated when the tick
// opens a later window. Ticks at or before the last applied timestamp
// return ErrStaleTick.
func (a *Aggregator) Ingest(tick *models.Tick) ([]models.BarEvent, error) {
	if a.hasTicked && tick.Timestamp <= a.lastTS {
		return nil, ErrStaleTick
	}
	a.lastTS = tick.Timestamp
	a.hasTicked = true

	start := a.windowStart(tick.Time())
	if a.cur == nil {
		a.openBar(start, tick)
		return []models.BarEvent{a.event(models.BarUpdated)}, nil
	}

	if start.Equal(a.cur.OpenTime) {
		if tick.Price > a.cur.High {
			a.cur.High = tick.Price
		}
		if tick.Price < a.cur.Low {
			a.cur.Low = tick.Price
		}
		a.cur.Close = tick.Price
		a.cur.Volume += tick.Volume
		return []models.BarEvent{a.event(models.BarUpdated)}, nil
	}

	closed := a.seal()
	a.openBar(start, tick)
	return []models.BarEvent{closed, a.event(models.BarUpdated)}, nil
}

// Flush seals the live bar, if any. Used on lane shutdown only; quiet
// periods never force a close.
func (a *Aggregator) Flush() (models.BarEvent, bool) {
	if a.cur == nil {
		return models.BarEvent{}, false
	}
	return a.seal(), true
}

// History returns a copy of the retained sealed bars, oldest first.
func (a *Aggregator) History() []models.Bar {
	out := make([]models.Bar, len(a.history))
	copy(out, a.history)
	return out
}

// Live returns the current unsealed bar.
func (a *Aggregator) Live() (models.Bar, bool) {
	if a.cur == nil {
		return models.Bar{}, false
	}
	return *a.cur, true
}

func (a *Aggregator) openBar(start time.Time, tick *models.Tick) {
	a.cur = &models.Bar{
		OpenTime: start,
		Open:     tick.Price,
		High:     tick.Price,
		Low:      tick.Price,
		Close:    tick.Price,
		Volume:   tick.Volume,
	}
}

func (a *Aggregator) seal() models.BarEvent {
	bar := *a.cur
	bar.Sealed = true
	a.append(bar)
	a.cur = nil
	return models.BarEvent{Kind: models.BarClosed, Key: a.key, Bar: bar}
}

func (a *Aggregator) append(bar models.Bar) {
	a.history = append(a.history, bar)
	if len(a.history) > a.retention {
		a.history = a.history[len(a.history)-a.retention:]
	}
}

func (a *Aggregator) event(kind models.BarEventKind) models.BarEvent {
	return models.BarEvent{Kind: kind, Key: a.key, Bar: *a.cur}
}

// windowStart aligns a tick to its bar window. Intraday windows count from
// the session open so a 5m bar at NSE starts 09:15, 09:20, ...; daily bars
// take the session date. Off-session ticks fall back to UTC truncation.
func (a *Aggregator) windowStart(at time.Time) time.Time {
	d := a.key.Interval.Duration()
	open := marketclock.SessionOpen(a.exchange, at)

	if at.Before(open) {
		return at.UTC().Truncate(d)
	}
	if a.key.Interval == models.Interval1d {
		return open
	}
	return open.Add(at.Sub(open).Truncate(d))
}
