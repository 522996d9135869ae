package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/domain/models"
)

var key = models.SymbolKey{Symbol: "AAPL", Interval: models.Interval5m}

func TestCombineEqualWeights(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Technical +20 with sentiment +80 lands at +50.
	assert.InDelta(t, 50.0, e.Combine(20, 80), 1e-9)
	assert.InDelta(t, -50.0, e.Combine(-20, -80), 1e-9)
	assert.InDelta(t, 0.0, e.Combine(60, -60), 1e-9)
}

func TestCombineCustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TechWeight, cfg.SentimentWeight = 0.7, 0.3
	e := NewEngine(cfg)

	assert.InDelta(t, 0.7*20+0.3*80, e.Combine(20, 80), 1e-9)
}

func TestFusionDirection(t *testing.T) {
	e := NewEngine(DefaultConfig())

	bullish := models.IndicatorSet{
		EMA9:       models.Defined(110),
		EMA21:      models.Defined(105),
		EMA50:      models.Defined(100),
		EMA200:     models.Defined(90),
		RSI14:      models.Defined(60),
		Supertrend: models.SupertrendState{Value: 95, Direction: models.TrendBullish, Defined: true},
	}

	p := e.Predict(key, 112, bullish, nil, 80, true, time.Now())
	require.NotNil(t, p)
	assert.Equal(t, models.DirectionBullish, p.Direction)
	assert.Greater(t, p.Combined, 0.0)
	assert.NotEmpty(t, p.BullReasons)
}

func TestStaleSentimentScoresNeutral(t *testing.T) {
	e := NewEngine(DefaultConfig())

	p := e.Predict(key, 100, models.IndicatorSet{}, nil, 0, false, time.Now())
	require.NotNil(t, p)
	assert.Equal(t, 0.0, p.Sentiment)
	assert.Equal(t, models.DirectionNeutral, p.Direction)
}

func TestNoIndicatorsNoSignalsIsNeutral(t *testing.T) {
	e := NewEngine(DefaultConfig())

	p := e.Predict(key, 100, models.IndicatorSet{}, nil, 0, true, time.Now())
	assert.Equal(t, 0.0, p.TechScore)
	assert.Equal(t, models.DirectionNeutral, p.Direction)
	assert.Equal(t, 0.0, p.Confidence)
}

func TestSignalAgreementMovesScore(t *testing.T) {
	e := NewEngine(DefaultConfig())
	now := time.Now()

	buys := []*models.Signal{
		{Side: models.SideBuy, Confidence: 80, Timestamp: now.Add(-time.Minute)},
		{Side: models.SideBuy, Confidence: 60, Timestamp: now.Add(-2 * time.Minute)},
	}
	p := e.Predict(key, 100, models.IndicatorSet{}, buys, 0, true, now)
	assert.InDelta(t, 20.0, p.TechScore, 1e-9)

	// Signals past the window are ignored.
	old := []*models.Signal{
		{Side: models.SideBuy, Confidence: 80, Timestamp: now.Add(-3 * time.Hour)},
	}
	p = e.Predict(key, 100, models.IndicatorSet{}, old, 0, true, now)
	assert.Equal(t, 0.0, p.TechScore)
}

func TestConfidenceIsAbsoluteCombined(t *testing.T) {
	e := NewEngine(DefaultConfig())

	bearish := models.IndicatorSet{
		EMA9:       models.Defined(90),
		EMA21:      models.Defined(95),
		EMA50:      models.Defined(100),
		EMA200:     models.Defined(110),
		RSI14:      models.Defined(30),
		Supertrend: models.SupertrendState{Value: 105, Direction: models.TrendBearish, Defined: true},
	}
	p := e.Predict(key, 88, bearish, nil, -60, true, time.Now())
	assert.Equal(t, models.DirectionBearish, p.Direction)
	assert.InDelta(t, -p.Combined, p.Confidence, 1e-9)
	assert.LessOrEqual(t, p.Confidence, 100.0)
}
