package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/domain/models"
)

var key = models.SymbolKey{Symbol: "AAPL", Interval: models.Interval5m}

func bar(close, volume float64) models.Bar {
	return models.Bar{
		OpenTime: time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC),
		Open:     close, High: close + 1, Low: close - 1, Close: close,
		Volume: volume,
		Sealed: true,
	}
}

// baseSet returns a fully defined, deliberately neutral snapshot that fires
// no strategy. Tests flip individual fields to trigger one rule at a time.
func baseSet() models.IndicatorSet {
	bull := models.SupertrendState{Value: 95, Direction: models.TrendBullish, Defined: true}
	return models.IndicatorSet{
		EMA9:   models.Defined(100),
		EMA21:  models.Defined(100),
		EMA50:  models.Defined(100),
		EMA200: models.Defined(100),

		RSI14:    models.Defined(50),
		ATR14:    models.Defined(2),
		ATRAvg20: models.Defined(2),

		Supertrend:     bull,
		FastSupertrend: bull,

		VWAP: models.Defined(100),

		BBUpper:  models.Defined(104),
		BBMiddle: models.Defined(100),
		BBLower:  models.Defined(96),

		MACD:       models.Defined(0),
		MACDSignal: models.Defined(0),
		MACDHist:   models.Defined(0),

		VolumeAvg20: models.Defined(1000),

		PrevClose:          models.Defined(100),
		PrevEMA9:           models.Defined(100),
		PrevEMA21:          models.Defined(100),
		PrevRSI14:          models.Defined(50),
		PrevVWAP:           models.Defined(100),
		PrevMACD:           models.Defined(0),
		PrevMACDSignal:     models.Defined(0),
		PrevBBUpper:        models.Defined(104),
		PrevBBLower:        models.Defined(96),
		PrevSupertrend:     bull,
		PrevFastSupertrend: bull,
	}
}

func signalsFor(t *testing.T, b models.Bar, ind models.IndicatorSet) []*models.Signal {
	t.Helper()
	return NewEvaluator().Evaluate(key, b, ind)
}

func onlyStrategy(t *testing.T, sigs []*models.Signal, id models.StrategyID) *models.Signal {
	t.Helper()
	require.Len(t, sigs, 1)
	assert.Equal(t, id, sigs[0].Strategy)
	return sigs[0]
}

func TestNeutralSnapshotFiresNothing(t *testing.T) {
	assert.Empty(t, signalsFor(t, bar(100, 1000), baseSet()))
}

func TestProMTFBuy(t *testing.T) {
	ind := baseSet()
	ind.PrevEMA9 = models.Defined(99)
	ind.PrevEMA21 = models.Defined(100)
	ind.EMA9 = models.Defined(101)
	ind.EMA21 = models.Defined(100)
	ind.RSI14 = models.Defined(58)
	ind.EMA200 = models.Defined(95)

	sig := onlyStrategy(t, signalsFor(t, bar(100, 1000), ind), models.StrategyProMTF)
	assert.Equal(t, models.SideBuy, sig.Side)
	assert.Equal(t, 100.0, sig.EntryPrice)
	assert.Equal(t, 58.0, sig.RSI)
}

func TestProMTFRequiresSupertrendAgreement(t *testing.T) {
	ind := baseSet()
	ind.PrevEMA9 = models.Defined(99)
	ind.EMA9 = models.Defined(101)
	ind.RSI14 = models.Defined(58)
	ind.EMA200 = models.Defined(95)
	ind.Supertrend = models.SupertrendState{Value: 110, Direction: models.TrendBearish, Defined: true}

	assert.Empty(t, signalsFor(t, bar(100, 1000), ind))
}

func TestVWAPEMASell(t *testing.T) {
	ind := baseSet()
	ind.PrevClose = models.Defined(101)
	ind.PrevVWAP = models.Defined(100.5)
	ind.VWAP = models.Defined(100.5)
	ind.EMA9 = models.Defined(99)
	ind.EMA21 = models.Defined(100)
	ind.RSI14 = models.Defined(42)

	sig := onlyStrategy(t, signalsFor(t, bar(99.5, 1000), ind), models.StrategyVWAPEMA)
	assert.Equal(t, models.SideSell, sig.Side)
}

func TestRSIReversalBuy(t *testing.T) {
	ind := baseSet()
	ind.PrevRSI14 = models.Defined(27)
	ind.RSI14 = models.Defined(33)
	ind.EMA50 = models.Defined(99)

	sig := onlyStrategy(t, signalsFor(t, bar(100, 1000), ind), models.StrategyRSIReversal)
	assert.Equal(t, models.SideBuy, sig.Side)
}

func TestRSIReversalBlockedBelowEMA50(t *testing.T) {
	ind := baseSet()
	ind.PrevRSI14 = models.Defined(27)
	ind.RSI14 = models.Defined(33)
	ind.EMA50 = models.Defined(120)

	assert.Empty(t, signalsFor(t, bar(100, 1000), ind))
}

func TestBollingerBuyNeedsVolumeSpike(t *testing.T) {
	ind := baseSet()
	ind.RSI14 = models.Defined(60)
	b := bar(105, 1000) // close above upper band but average volume

	assert.Empty(t, signalsFor(t, b, ind))

	b.Volume = 1400 // above 1.3x the 20-bar mean
	sig := onlyStrategy(t, signalsFor(t, b, ind), models.StrategyBollinger)
	assert.Equal(t, models.SideBuy, sig.Side)
}

func TestMACDSell(t *testing.T) {
	ind := baseSet()
	ind.PrevMACD = models.Defined(0.5)
	ind.PrevMACDSignal = models.Defined(0.2)
	ind.MACD = models.Defined(-0.1)
	ind.MACDSignal = models.Defined(0.1)
	ind.MACDHist = models.Defined(-0.2)
	ind.RSI14 = models.Defined(44)

	sig := onlyStrategy(t, signalsFor(t, bar(100, 1000), ind), models.StrategyMACD)
	assert.Equal(t, models.SideSell, sig.Side)
}

func TestScalperFiresOnFlipOnly(t *testing.T) {
	ind := baseSet()
	ind.PrevFastSupertrend = models.SupertrendState{Value: 104, Direction: models.TrendBearish, Defined: true}
	ind.FastSupertrend = models.SupertrendState{Value: 96, Direction: models.TrendBullish, Defined: true}
	ind.RSI14 = models.Defined(52)

	sig := onlyStrategy(t, signalsFor(t, bar(100, 1000), ind), models.StrategySupertrendScalper)
	assert.Equal(t, models.SideBuy, sig.Side)

	// Same direction on the next bar: no repeat signal.
	ind.PrevFastSupertrend = ind.FastSupertrend
	assert.Empty(t, signalsFor(t, bar(100, 1000), ind))
}

func TestUndefinedIndicatorsFireNothing(t *testing.T) {
	assert.Empty(t, signalsFor(t, bar(100, 1000), models.IndicatorSet{}))
}

func TestCatalogListsAllStrategies(t *testing.T) {
	metas := NewEvaluator().Catalog()
	require.Len(t, metas, len(models.StrategyIDs()))
	for i, id := range models.StrategyIDs() {
		assert.Equal(t, id, metas[i].ID)
	}
}
