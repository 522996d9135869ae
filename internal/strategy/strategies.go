package strategy

import "TradePulse/internal/domain/models"

// proMTF: EMA 9/21 crossover with RSI 50 side, EMA 200 trend and Supertrend
// agreement. Swing style, fires rarely.
type proMTF struct{}

func (proMTF) ID() models.StrategyID { return models.StrategyProMTF }
func (proMTF) Confidence() float64   { return 80 }

func (proMTF) Meta() models.StrategyMeta {
	return models.StrategyMeta{
		ID:            models.StrategyProMTF,
		Name:          "Pro MTF",
		Description:   "EMA 9/21 cross + RSI + EMA 200 trend + Supertrend. Best for swing trading.",
		SignalsPerDay: "1-3",
		BestFor:       "1d",
		Style:         "Swing",
	}
}

func (proMTF) Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool) {
	if !ind.RSI14.Defined || !ind.EMA200.Defined || !ind.Supertrend.Defined {
		return "", false
	}
	if models.CrossedOver(ind.PrevEMA9, ind.PrevEMA21, ind.EMA9, ind.EMA21) &&
		ind.RSI14.Value > 50 &&
		bar.Close > ind.EMA200.Value &&
		ind.Supertrend.Direction == models.TrendBullish {
		return models.SideBuy, true
	}
	if models.CrossedUnder(ind.PrevEMA9, ind.PrevEMA21, ind.EMA9, ind.EMA21) &&
		ind.RSI14.Value < 50 &&
		bar.Close < ind.EMA200.Value &&
		ind.Supertrend.Direction == models.TrendBearish {
		return models.SideSell, true
	}
	return "", false
}

// vwapEMA: close crosses VWAP with the EMA 9/21 order and RSI 50 agreeing.
type vwapEMA struct{}

func (vwapEMA) ID() models.StrategyID { return models.StrategyVWAPEMA }
func (vwapEMA) Confidence() float64   { return 70 }

func (vwapEMA) Meta() models.StrategyMeta {
	return models.StrategyMeta{
		ID:            models.StrategyVWAPEMA,
		Name:          "VWAP + EMA",
		Description:   "Price vs VWAP crossover + EMA 9/21 direction + RSI. Classic intraday.",
		SignalsPerDay: "4-6",
		BestFor:       "5m, 15m",
		Style:         "Intraday",
	}
}

func (vwapEMA) Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool) {
	if !ind.RSI14.Defined || !ind.EMA9.Defined || !ind.EMA21.Defined {
		return "", false
	}
	close := models.Defined(bar.Close)
	if models.CrossedOver(ind.PrevClose, ind.PrevVWAP, close, ind.VWAP) &&
		ind.EMA9.Value > ind.EMA21.Value &&
		ind.RSI14.Value > 50 {
		return models.SideBuy, true
	}
	if models.CrossedUnder(ind.PrevClose, ind.PrevVWAP, close, ind.VWAP) &&
		ind.EMA9.Value < ind.EMA21.Value &&
		ind.RSI14.Value < 50 {
		return models.SideSell, true
	}
	return "", false
}

// rsiReversal: RSI leaves the oversold/overbought zone with an EMA 50 filter.
type rsiReversal struct{}

func (rsiReversal) ID() models.StrategyID { return models.StrategyRSIReversal }
func (rsiReversal) Confidence() float64   { return 65 }

func (rsiReversal) Meta() models.StrategyMeta {
	return models.StrategyMeta{
		ID:            models.StrategyRSIReversal,
		Name:          "RSI Reversal",
		Description:   "RSI exits oversold (<30) or overbought (>70) zones with EMA 50 filter.",
		SignalsPerDay: "3-6",
		BestFor:       "5m, 15m",
		Style:         "Mean Reversion",
	}
}

func (rsiReversal) Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool) {
	if !ind.RSI14.Defined || !ind.PrevRSI14.Defined || !ind.EMA50.Defined {
		return "", false
	}
	if ind.PrevRSI14.Value < 30 && ind.RSI14.Value >= 30 && bar.Close > ind.EMA50.Value {
		return models.SideBuy, true
	}
	if ind.PrevRSI14.Value > 70 && ind.RSI14.Value <= 70 && bar.Close < ind.EMA50.Value {
		return models.SideSell, true
	}
	return "", false
}

// bollingerBreakout: close breaks a 20,2σ band with RSI momentum and a
// volume spike above 1.3x the 20-bar mean.
type bollingerBreakout struct{}

func (bollingerBreakout) ID() models.StrategyID { return models.StrategyBollinger }
func (bollingerBreakout) Confidence() float64   { return 70 }

func (bollingerBreakout) Meta() models.StrategyMeta {
	return models.StrategyMeta{
		ID:            models.StrategyBollinger,
		Name:          "Bollinger Breakout",
		Description:   "Price breaks Bollinger Band + RSI momentum + volume spike confirmation.",
		SignalsPerDay: "4-6",
		BestFor:       "5m, 15m",
		Style:         "Breakout",
	}
}

func (bollingerBreakout) Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool) {
	if !ind.RSI14.Defined || !ind.BBUpper.Defined || !ind.VolumeAvg20.Defined ||
		!ind.PrevClose.Defined || !ind.PrevBBUpper.Defined {
		return "", false
	}
	volOK := bar.Volume > ind.VolumeAvg20.Value*1.3
	if !volOK {
		return "", false
	}
	if ind.PrevClose.Value <= ind.PrevBBUpper.Value && bar.Close > ind.BBUpper.Value &&
		ind.RSI14.Value > 55 {
		return models.SideBuy, true
	}
	if ind.PrevClose.Value >= ind.PrevBBLower.Value && bar.Close < ind.BBLower.Value &&
		ind.RSI14.Value < 45 {
		return models.SideSell, true
	}
	return "", false
}

// macdCross: MACD/Signal crossover with the histogram sign and RSI agreeing.
type macdCross struct{}

func (macdCross) ID() models.StrategyID { return models.StrategyMACD }
func (macdCross) Confidence() float64   { return 70 }

func (macdCross) Meta() models.StrategyMeta {
	return models.StrategyMeta{
		ID:            models.StrategyMACD,
		Name:          "MACD Crossover",
		Description:   "MACD crosses Signal line + histogram confirms + RSI filter.",
		SignalsPerDay: "4-6",
		BestFor:       "15m, 1h",
		Style:         "Trend",
	}
}

func (macdCross) Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool) {
	if !ind.RSI14.Defined || !ind.MACDHist.Defined {
		return "", false
	}
	if models.CrossedOver(ind.PrevMACD, ind.PrevMACDSignal, ind.MACD, ind.MACDSignal) &&
		ind.MACDHist.Value > 0 &&
		ind.RSI14.Value > 50 {
		return models.SideBuy, true
	}
	if models.CrossedUnder(ind.PrevMACD, ind.PrevMACDSignal, ind.MACD, ind.MACDSignal) &&
		ind.MACDHist.Value < 0 &&
		ind.RSI14.Value < 50 {
		return models.SideSell, true
	}
	return "", false
}

// supertrendScalper: fast Supertrend(2,7) direction flip with RSI
// confirmation. The most active of the set.
type supertrendScalper struct{}

func (supertrendScalper) ID() models.StrategyID { return models.StrategySupertrendScalper }
func (supertrendScalper) Confidence() float64   { return 60 }

func (supertrendScalper) Meta() models.StrategyMeta {
	return models.StrategyMeta{
		ID:            models.StrategySupertrendScalper,
		Name:          "ST Scalper",
		Description:   "Fast Supertrend(2,7) direction flip + RSI confirmation. Most signals.",
		SignalsPerDay: "6-12",
		BestFor:       "5m",
		Style:         "Scalping",
	}
}

func (supertrendScalper) Evaluate(bar models.Bar, ind models.IndicatorSet) (models.Side, bool) {
	if !ind.RSI14.Defined || !ind.FastSupertrend.Defined || !ind.PrevFastSupertrend.Defined {
		return "", false
	}
	flippedUp := ind.PrevFastSupertrend.Direction == models.TrendBearish &&
		ind.FastSupertrend.Direction == models.TrendBullish
	flippedDown := ind.PrevFastSupertrend.Direction == models.TrendBullish &&
		ind.FastSupertrend.Direction == models.TrendBearish

	if flippedUp && ind.RSI14.Value > 45 {
		return models.SideBuy, true
	}
	if flippedDown && ind.RSI14.Value < 55 {
		return models.SideSell, true
	}
	return "", false
}
