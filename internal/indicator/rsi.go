package indicator

// RSI is Wilder's relative strength index. Gain/loss averages seed over the
// deltas of the first period closes, so the value becomes defined exactly
// when period sealed bars have been seen.
type RSI struct {
	period    int
	prevClose float64
	hasPrev   bool
	deltas    int
	gainSum   float64
	lossSum   float64
	avgGain   float64
	avgLoss   float64
	ready     bool
}

func NewRSI(period int) RSI { return RSI{period: period} }

func (r *RSI) Update(close float64) {
	if !r.hasPrev {
		r.prevClose = close
		r.hasPrev = true
		return
	}
	delta := close - r.prevClose
	r.prevClose = close
	gain, loss := split(delta)

	if !r.ready {
		r.gainSum += gain
		r.lossSum += loss
		r.deltas++
		if r.deltas == r.period-1 {
			r.avgGain = r.gainSum / float64(r.period-1)
			r.avgLoss = r.lossSum / float64(r.period-1)
			r.ready = true
		}
		return
	}
	r.avgGain = (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
	r.avgLoss = (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
}

func (r *RSI) Value() (float64, bool) {
	if !r.ready {
		return 0, false
	}
	return fromAverages(r.avgGain, r.avgLoss), true
}

func (r *RSI) Peek(close float64) (float64, bool) {
	if !r.hasPrev {
		return 0, false
	}
	delta := close - r.prevClose
	gain, loss := split(delta)
	if !r.ready {
		if r.deltas+1 != r.period-1 {
			return 0, false
		}
		return fromAverages((r.gainSum+gain)/float64(r.period-1), (r.lossSum+loss)/float64(r.period-1)), true
	}
	ag := (r.avgGain*float64(r.period-1) + gain) / float64(r.period)
	al := (r.avgLoss*float64(r.period-1) + loss) / float64(r.period)
	return fromAverages(ag, al), true
}

func split(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

func fromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
