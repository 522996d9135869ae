// Package strategy evaluates sealed bars against the built-in strategy set.
// Each strategy is pure over the bar and indicator snapshot it is handed and
// emits at most one signal per sealed bar.
package strategy

import (
	"TradePulse/internal/domain/models"
)

// Strategy is one rule set. Evaluate reports a side and whether the rule
// fired for this sealed bar.
type Strategy interface {
	ID() models.StrategyID
	Meta() models.StrategyMeta
	Confidence() float64
	Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool)
}

// Evaluator runs the closed set of built-in strategies.
type Evaluator struct {
	strategies []Strategy
}

func NewEvaluator() *Evaluator {
	return &Evaluator{strategies: []Strategy{
		proMTF{},
		vwapEMA{},
		rsiReversal{},
		bollingerBreakout{},
		macdCross{},
		supertrendScalper{},
	}}
}

// Evaluate runs every strategy against one sealed bar. Multiple strategies
// may fire on the same bar; duplicates are not suppressed.
func (ev *Evaluator) Evaluate(key models.SymbolKey, bar models.Bar, ind models.IndicatorSet) []*models.Signal {
	var out []*models.Signal
	ts := bar.OpenTime.Add(key.Interval.Duration())
	for _, s := range ev.strategies {
		side, fired := s.Evaluate(bar, ind)
		if !fired {
			continue
		}
		sig := &models.Signal{
			Key:        key,
			Symbol:     key.Symbol,
			Interval:   key.Interval,
			Strategy:   s.ID(),
			Side:       side,
			EntryPrice: bar.Close,
			Timestamp:  ts,
			Confidence: s.Confidence(),
		}
		if ind.RSI14.Defined {
			sig.RSI = ind.RSI14.Value
		}
		if ind.ATR14.Defined {
			sig.ATR = ind.ATR14.Value
		}
		out = append(out, sig)
	}
	return out
}

// Catalog returns metadata for every built-in strategy.
func (ev *Evaluator) Catalog() []models.StrategyMeta {
	out := make([]models.StrategyMeta, 0, len(ev.strategies))
	for _, s := range ev.strategies {
		out = append(out, s.Meta())
	}
	return out
}
