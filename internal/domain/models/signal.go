package models

import (
	"encoding/json"
	"time"
)

// Side is the direction of a trade signal.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// StrategyID identifies one of the built-in strategy evaluators.
type StrategyID string

const (
	StrategyProMTF            StrategyID = "pro_mtf"
	StrategyVWAPEMA           StrategyID = "vwap_ema"
	StrategyRSIReversal       StrategyID = "rsi_reversal"
	StrategyBollinger         StrategyID = "bollinger"
	StrategyMACD              StrategyID = "macd"
	StrategySupertrendScalper StrategyID = "supertrend_scalper"
)

// StrategyIDs lists every built-in strategy in catalog order.
func StrategyIDs() []StrategyID {
	return []StrategyID{
		StrategyProMTF,
		StrategyVWAPEMA,
		StrategyRSIReversal,
		StrategyBollinger,
		StrategyMACD,
		StrategySupertrendScalper,
	}
}

// Signal is an immutable strategy emission on a sealed bar.
type Signal struct {
	Key        SymbolKey  `json:"-"`
	Symbol     string     `json:"symbol"`
	Interval   Interval   `json:"interval"`
	Strategy   StrategyID `json:"strategy"`
	Side       Side       `json:"side"`
	EntryPrice float64    `json:"entry_price"`
	Timestamp  time.Time  `json:"timestamp"`
	Confidence float64    `json:"confidence"`
	RSI        float64    `json:"rsi,omitempty"`
	ATR        float64    `json:"atr,omitempty"`

	// Target is nil while ATR is still undefined (target-pending).
	Target *Target `json:"target,omitempty"`
}

// TargetPending reports whether the signal was emitted before ATR warm-up.
func (s *Signal) TargetPending() bool { return s.Target == nil }

// MarshalJSON adds the derived target_pending mark to the wire form so
// consumers need not infer it from the absent target field.
func (s *Signal) MarshalJSON() ([]byte, error) {
	type alias Signal
	return json.Marshal(&struct {
		*alias
		TargetPending bool `json:"target_pending"`
	}{(*alias)(s), s.TargetPending()})
}

// Target holds profit/stop levels and the expected time to the first target.
// For BUY: TP2 > TP1 > entry > SL. For SELL the ordering mirrors.
type Target struct {
	TP1 float64 `json:"tp1"`
	TP2 float64 `json:"tp2"`
	SL  float64 `json:"sl"`

	// ETA is the expected wall-clock time to TP1. Unbounded is set instead
	// when the estimate exceeds the reporting cap.
	ETA       time.Duration `json:"eta_seconds"`
	ETABars   float64       `json:"eta_bars"`
	Unbounded bool          `json:"unbounded,omitempty"`
}

// StrategyMeta is catalog metadata served by the strategies endpoint.
type StrategyMeta struct {
	ID            StrategyID `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	SignalsPerDay string     `json:"signals_per_day"`
	BestFor       string     `json:"best_for"`
	Style         string     `json:"style"`
}
