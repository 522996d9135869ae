package models

// IndicatorValue is a possibly-undefined indicator reading. Values stay
// undefined until the indicator has seen its minimum period of sealed bars.
type IndicatorValue struct {
	Value   float64
	Defined bool
}

// Defined wraps v as a defined reading.
func Defined(v float64) IndicatorValue { return IndicatorValue{Value: v, Defined: true} }

// Undefined is the zero reading.
func Undefined() IndicatorValue { return IndicatorValue{} }

// TrendDirection is the sticky direction of an ATR-band overlay.
type TrendDirection int8

const (
	TrendBullish TrendDirection = 1
	TrendBearish TrendDirection = -1
)

func (d TrendDirection) String() string {
	if d == TrendBullish {
		return "BULLISH"
	}
	return "BEARISH"
}

// SupertrendState is the current band value and sticky direction.
type SupertrendState struct {
	Value     float64
	Direction TrendDirection
	Defined   bool
}

// IndicatorSet is the full per-key indicator snapshot handed to strategies
// and the prediction engine. Prev* fields hold the reading one sealed bar
// earlier so cross conditions never re-resolve timestamps themselves.
type IndicatorSet struct {
	EMA9   IndicatorValue
	EMA21  IndicatorValue
	EMA50  IndicatorValue
	EMA200 IndicatorValue

	RSI14    IndicatorValue
	ATR14    IndicatorValue
	ATRAvg20 IndicatorValue

	Supertrend     SupertrendState
	FastSupertrend SupertrendState

	VWAP IndicatorValue

	BBUpper  IndicatorValue
	BBMiddle IndicatorValue
	BBLower  IndicatorValue

	MACD       IndicatorValue
	MACDSignal IndicatorValue
	MACDHist   IndicatorValue

	VolumeAvg20 IndicatorValue
	Momentum5   IndicatorValue // close change over 5 bars, percent

	PrevClose          IndicatorValue
	PrevEMA9           IndicatorValue
	PrevEMA21          IndicatorValue
	PrevRSI14          IndicatorValue
	PrevVWAP           IndicatorValue
	PrevMACD           IndicatorValue
	PrevMACDSignal     IndicatorValue
	PrevBBUpper        IndicatorValue
	PrevBBLower        IndicatorValue
	PrevSupertrend     SupertrendState
	PrevFastSupertrend SupertrendState
}

// CrossedOver reports a strict upward cross of a over b between the previous
// and current readings.
func CrossedOver(prevA, prevB, a, b IndicatorValue) bool {
	if !prevA.Defined || !prevB.Defined || !a.Defined || !b.Defined {
		return false
	}
	return prevA.Value <= prevB.Value && a.Value > b.Value
}

// CrossedUnder reports a strict downward cross of a under b.
func CrossedUnder(prevA, prevB, a, b IndicatorValue) bool {
	if !prevA.Defined || !prevB.Defined || !a.Defined || !b.Defined {
		return false
	}
	return prevA.Value >= prevB.Value && a.Value < b.Value
}
