package indicator

import "TradePulse/internal/domain/models"

// Periods and factors of the built-in indicator stack.
const (
	emaFastPeriod   = 9
	emaMidPeriod    = 21
	emaSlowPeriod   = 50
	emaTrendPeriod  = 200
	rsiPeriod       = 14
	atrPeriod       = 14
	atrAvgWindow    = 20
	bbWindow        = 20
	bbStdDevs       = 2.0
	volumeWindow    = 20
	momentumBars    = 5
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	stFactor        = 3.0
	stATRPeriod     = 10
	fastSTFactor    = 2.0
	fastSTATRPeriod = 7
)

// Engine holds the incremental indicator state for one symbol lane. Sealed
// bars advance the confirmed state; live bars are evaluated as a tentative
// extra step that is never persisted.
type Engine struct {
	ema9   EMA
	ema21  EMA
	ema50  EMA
	ema200 EMA

	rsi    RSI
	atr    ATR
	atrAvg Window

	st     Supertrend
	fastST Supertrend

	vwap VWAP
	macd MACD

	closes   Window // Bollinger basis
	volumes  Window
	momentum Window // closes incl. current, oldest is momentumBars back

	confirmed models.IndicatorSet
	lastClose models.IndicatorValue
	bars      int
}

func NewEngine() *Engine {
	return &Engine{
		ema9:     NewEMA(emaFastPeriod),
		ema21:    NewEMA(emaMidPeriod),
		ema50:    NewEMA(emaSlowPeriod),
		ema200:   NewEMA(emaTrendPeriod),
		rsi:      NewRSI(rsiPeriod),
		atr:      NewATR(atrPeriod),
		atrAvg:   NewWindow(atrAvgWindow),
		st:       NewSupertrend(stFactor, stATRPeriod),
		fastST:   NewSupertrend(fastSTFactor, fastSTATRPeriod),
		macd:     NewMACD(macdFast, macdSlow, macdSignal),
		closes:   NewWindow(bbWindow),
		volumes:  NewWindow(volumeWindow),
		momentum: NewWindow(momentumBars + 1),
	}
}

// Bars reports how many sealed bars the engine has consumed.
func (e *Engine) Bars() int { return e.bars }

// OnClosed advances the confirmed state with a sealed bar and returns the
// new confirmed snapshot.
func (e *Engine) OnClosed(bar models.Bar) models.IndicatorSet {
	prev := e.confirmed
	prevClose := e.lastClose

	c := bar.Close
	e.ema9.Update(c)
	e.ema21.Update(c)
	e.ema50.Update(c)
	e.ema200.Update(c)
	e.rsi.Update(c)
	e.atr.Update(bar.High, bar.Low, c)
	if av, ok := e.atr.Value(); ok {
		e.atrAvg.Push(av)
	}
	e.st.Update(bar.High, bar.Low, c)
	e.fastST.Update(bar.High, bar.Low, c)
	e.vwap.Update((bar.High+bar.Low+c)/3, bar.Volume)
	e.macd.Update(c)
	e.closes.Push(c)
	e.volumes.Push(bar.Volume)
	e.momentum.Push(c)
	e.bars++

	set := e.snapshot()
	fillPrev(&set, prev, prevClose)
	e.confirmed = set
	e.lastClose = models.Defined(c)
	return set
}

// OnUpdated evaluates the live bar as one tentative step past the confirmed
// state. Nothing is persisted.
func (e *Engine) OnUpdated(bar models.Bar) models.IndicatorSet {
	c := bar.Close
	var set models.IndicatorSet
	set.EMA9 = toValue(e.ema9.Peek(c))
	set.EMA21 = toValue(e.ema21.Peek(c))
	set.EMA50 = toValue(e.ema50.Peek(c))
	set.EMA200 = toValue(e.ema200.Peek(c))
	set.RSI14 = toValue(e.rsi.Peek(c))
	set.ATR14 = toValue(e.atr.Peek(bar.High, bar.Low, c))
	if av, ok := e.atr.Peek(bar.High, bar.Low, c); ok {
		set.ATRAvg20 = toValue(e.atrAvg.MeanWith(av))
	}
	set.Supertrend = e.st.Peek(bar.High, bar.Low, c)
	set.FastSupertrend = e.fastST.Peek(bar.High, bar.Low, c)
	set.VWAP = toValue(e.vwap.Peek((bar.High+bar.Low+c)/3, bar.Volume))
	m, sig, hist, ok := e.macd.Peek(c)
	if ok {
		set.MACD, set.MACDSignal, set.MACDHist = models.Defined(m), models.Defined(sig), models.Defined(hist)
	}
	if mid, ok := e.closes.MeanWith(c); ok {
		sd, _ := e.closes.StdDevWith(c)
		set.BBMiddle = models.Defined(mid)
		set.BBUpper = models.Defined(mid + bbStdDevs*sd)
		set.BBLower = models.Defined(mid - bbStdDevs*sd)
	}
	set.VolumeAvg20 = toValue(e.volumes.MeanWith(bar.Volume))

	fillPrev(&set, e.confirmed, e.lastClose)
	return set
}

// Confirmed returns the last confirmed snapshot.
func (e *Engine) Confirmed() models.IndicatorSet { return e.confirmed }

func (e *Engine) snapshot() models.IndicatorSet {
	var set models.IndicatorSet
	set.EMA9 = toValue(e.ema9.Value())
	set.EMA21 = toValue(e.ema21.Value())
	set.EMA50 = toValue(e.ema50.Value())
	set.EMA200 = toValue(e.ema200.Value())
	set.RSI14 = toValue(e.rsi.Value())
	set.ATR14 = toValue(e.atr.Value())
	set.ATRAvg20 = toValue(e.atrAvg.Mean())
	set.Supertrend = e.st.State()
	set.FastSupertrend = e.fastST.State()
	set.VWAP = toValue(e.vwap.Value())
	if m, sig, hist, ok := e.macd.Value(); ok {
		set.MACD, set.MACDSignal, set.MACDHist = models.Defined(m), models.Defined(sig), models.Defined(hist)
	}
	if mid, ok := e.closes.Mean(); ok {
		sd, _ := e.closes.StdDev()
		set.BBMiddle = models.Defined(mid)
		set.BBUpper = models.Defined(mid + bbStdDevs*sd)
		set.BBLower = models.Defined(mid - bbStdDevs*sd)
	}
	set.VolumeAvg20 = toValue(e.volumes.Mean())
	if e.momentum.Full() {
		first, _ := e.momentum.First()
		last := e.momentum.values[len(e.momentum.values)-1]
		if first != 0 {
			set.Momentum5 = models.Defined((last - first) / first * 100)
		}
	}
	return set
}

func fillPrev(set *models.IndicatorSet, prev models.IndicatorSet, prevClose models.IndicatorValue) {
	set.PrevClose = prevClose
	set.PrevEMA9 = prev.EMA9
	set.PrevEMA21 = prev.EMA21
	set.PrevRSI14 = prev.RSI14
	set.PrevVWAP = prev.VWAP
	set.PrevMACD = prev.MACD
	set.PrevMACDSignal = prev.MACDSignal
	set.PrevBBUpper = prev.BBUpper
	set.PrevBBLower = prev.BBLower
	set.PrevSupertrend = prev.Supertrend
	set.PrevFastSupertrend = prev.FastSupertrend
}

func toValue(v float64, ok bool) models.IndicatorValue {
	if !ok {
		return models.Undefined()
	}
	return models.Defined(v)
}
