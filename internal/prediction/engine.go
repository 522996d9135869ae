// Package prediction fuses the technical posture of a lane with an external
// sentiment score into a directional call. Scores live in [-100, 100].
package prediction

import (
	"fmt"
	"math"
	"time"

	"TradePulse/internal/domain/models"
)

// Config tunes the fusion. Weights are renormalized, so any positive pair
// works; equal weights by default.
type Config struct {
	TechWeight      float64       `yaml:"tech_weight"`
	SentimentWeight float64       `yaml:"sentiment_weight"`
	Threshold       float64       `yaml:"threshold"`
	SignalWindow    time.Duration `yaml:"signal_window"`
}

func DefaultConfig() Config {
	return Config{
		TechWeight:      0.5,
		SentimentWeight: 0.5,
		Threshold:       20,
		SignalWindow:    2 * time.Hour,
	}
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.TechWeight <= 0 && cfg.SentimentWeight <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// Predict builds a prediction from the lane's confirmed snapshot, the
// recent signal tail and the latest sentiment reading. A missing or stale
// sentiment arrives as sentimentOK=false and scores neutral.
func (e *Engine) Predict(key models.SymbolKey, close float64, ind models.IndicatorSet,
	recent []*models.Signal, sentiment float64, sentimentOK bool, now time.Time) *models.Prediction {

	tech, bull, bear := e.techScore(close, ind, recent, now)
	if !sentimentOK {
		sentiment = 0
	}
	combined := e.Combine(tech, sentiment)

	p := &models.Prediction{
		Symbol:      key.Symbol,
		Interval:    key.Interval,
		TechScore:   round1(tech),
		Sentiment:   round1(sentiment),
		Combined:    round1(combined),
		Confidence:  round1(math.Min(100, math.Abs(combined))),
		BullReasons: bull,
		BearReasons: bear,
		Timestamp:   now,
	}
	switch {
	case combined >= e.cfg.Threshold:
		p.Direction = models.DirectionBullish
	case combined <= -e.cfg.Threshold:
		p.Direction = models.DirectionBearish
	default:
		p.Direction = models.DirectionNeutral
	}

	if sentimentOK {
		switch {
		case sentiment > 30:
			p.BullReasons = append(p.BullReasons, "News sentiment strongly positive")
		case sentiment > 10:
			p.BullReasons = append(p.BullReasons, "News sentiment mildly positive")
		case sentiment < -30:
			p.BearReasons = append(p.BearReasons, "News sentiment strongly negative")
		case sentiment < -10:
			p.BearReasons = append(p.BearReasons, "News sentiment mildly negative")
		}
	}
	return p
}

// Combine fuses a technical and a sentiment score with the configured
// weights, clamped to [-100, 100].
func (e *Engine) Combine(tech, sentiment float64) float64 {
	wt, ws := e.cfg.TechWeight, e.cfg.SentimentWeight
	total := wt + ws
	if total <= 0 {
		wt, ws, total = 0.5, 0.5, 1
	}
	return clamp100((tech*wt + sentiment*ws) / total)
}

// techScore walks the indicator posture ladder and folds in the
// confidence-weighted agreement of the recent signal tail.
func (e *Engine) techScore(close float64, ind models.IndicatorSet,
	recent []*models.Signal, now time.Time) (float64, []string, []string) {

	var score float64
	var bull, bear []string

	// EMA stack.
	switch {
	case defAll(ind.EMA9, ind.EMA21, ind.EMA50) && ind.EMA9.Value > ind.EMA21.Value && ind.EMA21.Value > ind.EMA50.Value:
		score += 28
		bull = append(bull, "EMA 9 > 21 > 50, strong uptrend alignment")
	case defAll(ind.EMA9, ind.EMA21, ind.EMA50) && ind.EMA9.Value < ind.EMA21.Value && ind.EMA21.Value < ind.EMA50.Value:
		score -= 28
		bear = append(bear, "EMA 9 < 21 < 50, strong downtrend alignment")
	case defAll(ind.EMA9, ind.EMA21) && ind.EMA9.Value > ind.EMA21.Value:
		score += 14
		bull = append(bull, "EMA 9 above EMA 21, short-term bullish")
	case defAll(ind.EMA9, ind.EMA21):
		score -= 14
		bear = append(bear, "EMA 9 below EMA 21, short-term bearish")
	}

	// Long-term trend.
	if ind.EMA200.Defined {
		if close > ind.EMA200.Value {
			score += 20
			bull = append(bull, "Price above EMA 200, long-term uptrend")
		} else {
			score -= 20
			bear = append(bear, "Price below EMA 200, long-term downtrend")
		}
	}

	// RSI zone.
	if ind.RSI14.Defined {
		r := ind.RSI14.Value
		switch {
		case r > 65:
			score += 20
			bull = append(bull, fmt.Sprintf("RSI %.0f, strong bullish momentum", r))
		case r > 55:
			score += 10
			bull = append(bull, fmt.Sprintf("RSI %.0f, moderate bullish momentum", r))
		case r < 35:
			score -= 20
			bear = append(bear, fmt.Sprintf("RSI %.0f, oversold / bearish momentum", r))
		case r < 45:
			score -= 10
			bear = append(bear, fmt.Sprintf("RSI %.0f, moderate bearish momentum", r))
		}
	}

	// Supertrend.
	if ind.Supertrend.Defined {
		if ind.Supertrend.Direction == models.TrendBullish {
			score += 20
			bull = append(bull, "Supertrend bullish, price above support line")
		} else {
			score -= 20
			bear = append(bear, "Supertrend bearish, price below resistance line")
		}
	}

	// MACD.
	if defAll(ind.MACD, ind.MACDSignal) {
		if ind.MACD.Value > ind.MACDSignal.Value {
			score += 16
			bull = append(bull, "MACD above Signal line, bullish crossover")
		} else {
			score -= 16
			bear = append(bear, "MACD below Signal line, bearish crossover")
		}
	}

	// 5-bar momentum.
	if ind.Momentum5.Defined {
		if ind.Momentum5.Value > 1.5 {
			score += 10
			bull = append(bull, fmt.Sprintf("Strong 5-bar momentum +%.1f%%", ind.Momentum5.Value))
		} else if ind.Momentum5.Value < -1.5 {
			score -= 10
			bear = append(bear, fmt.Sprintf("Weak 5-bar momentum %.1f%%", ind.Momentum5.Value))
		}
	}

	// Recent signal agreement, confidence weighted.
	var buyW, sellW float64
	for _, s := range recent {
		if e.cfg.SignalWindow > 0 && now.Sub(s.Timestamp) > e.cfg.SignalWindow {
			continue
		}
		if s.Side == models.SideBuy {
			buyW += s.Confidence
		} else {
			sellW += s.Confidence
		}
	}
	if total := buyW + sellW; total > 0 {
		agreement := 20 * (buyW - sellW) / total
		score += agreement
		if agreement > 0 {
			bull = append(bull, "Recent strategy signals lean BUY")
		} else if agreement < 0 {
			bear = append(bear, "Recent strategy signals lean SELL")
		}
	}

	return clamp100(score), bull, bear
}

func defAll(vs ...models.IndicatorValue) bool {
	for _, v := range vs {
		if !v.Defined {
			return false
		}
	}
	return true
}

func clamp100(v float64) float64 { return math.Max(-100, math.Min(100, v)) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
