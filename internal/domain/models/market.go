package models

import (
	"fmt"
	"time"
)

// Tick is a single trade print from the market data collaborator.
// Timestamp is unix milliseconds UTC.
type Tick struct {
	Symbol    string
	Timestamp int64
	Price     float64
	Volume    float64
}

func (t *Tick) Time() time.Time { return time.UnixMilli(t.Timestamp).UTC() }

// Interval is a supported bar resolution.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
)

// Duration returns the wall-clock width of one bar window.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case Interval1m:
		return time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval15m:
		return 15 * time.Minute
	case Interval1h:
		return time.Hour
	case Interval1d:
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

// TradingMinutes returns how many tradeable minutes one bar spans.
// A daily bar is one exchange session (~390 minutes), not 24 hours.
func (iv Interval) TradingMinutes() float64 {
	switch iv {
	case Interval1d:
		return 390
	default:
		return iv.Duration().Minutes()
	}
}

// IsValidInterval reports whether iv is a supported resolution.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1m, Interval5m, Interval15m, Interval1h, Interval1d:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default bar resolution.
func DefaultInterval() Interval { return Interval5m }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// SymbolKey uniquely identifies one streaming pipeline lane.
type SymbolKey struct {
	Symbol   string
	Interval Interval
}

func (k SymbolKey) String() string { return fmt.Sprintf("%s:%s", k.Symbol, k.Interval) }

// Bar is one OHLCV window. Open is fixed on the first tick; a sealed bar
// is immutable.
type Bar struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Sealed   bool
}

// BarEventKind distinguishes live-bar mutations from bar closes.
type BarEventKind string

const (
	BarUpdated BarEventKind = "UPDATED"
	BarClosed  BarEventKind = "CLOSED"
)

// BarEvent is emitted by the aggregator for every accepted tick.
// A CLOSED event carries the sealed bar.
type BarEvent struct {
	Kind BarEventKind
	Key  SymbolKey
	Bar  Bar
}
