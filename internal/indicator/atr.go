package indicator

import "math"

// ATR is Wilder's average true range. The first bar's true range is high-low,
// so the value becomes defined exactly at period sealed bars.
type ATR struct {
	period    int
	prevClose float64
	hasPrev   bool
	count     int
	trSum     float64
	value     float64
	ready     bool
}

func NewATR(period int) ATR { return ATR{period: period} }

func (a *ATR) Update(high, low, close float64) {
	tr := trueRange(high, low, a.prevClose, a.hasPrev)
	a.prevClose = close
	a.hasPrev = true

	if a.ready {
		a.value = (a.value*float64(a.period-1) + tr) / float64(a.period)
		return
	}
	a.trSum += tr
	a.count++
	if a.count == a.period {
		a.value = a.trSum / float64(a.period)
		a.ready = true
	}
}

func (a *ATR) Value() (float64, bool) { return a.value, a.ready }

func (a *ATR) Peek(high, low, close float64) (float64, bool) {
	tr := trueRange(high, low, a.prevClose, a.hasPrev)
	if a.ready {
		return (a.value*float64(a.period-1) + tr) / float64(a.period), true
	}
	if a.count+1 == a.period {
		return (a.trSum + tr) / float64(a.period), true
	}
	return 0, false
}

func trueRange(high, low, prevClose float64, hasPrev bool) float64 {
	if !hasPrev {
		return high - low
	}
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}
