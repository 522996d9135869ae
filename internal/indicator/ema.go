package indicator

// EMA is an incremental exponential moving average seeded with the simple
// average of the first period closes, k = 2/(period+1). Value is undefined
// until period closes have been consumed.
type EMA struct {
	period int
	k      float64
	sum    float64
	count  int
	value  float64
	ready  bool
}

func NewEMA(period int) EMA {
	return EMA{period: period, k: 2.0 / float64(period+1)}
}

// Update consumes one sealed close.
func (e *EMA) Update(close float64) {
	if e.ready {
		e.value += e.k * (close - e.value)
		return
	}
	e.sum += close
	e.count++
	if e.count == e.period {
		e.value = e.sum / float64(e.period)
		e.ready = true
	}
}

// Value returns the confirmed EMA.
func (e *EMA) Value() (float64, bool) { return e.value, e.ready }

// Peek returns the EMA as if close sealed the next bar. State is untouched.
func (e *EMA) Peek(close float64) (float64, bool) {
	if e.ready {
		return e.value + e.k*(close-e.value), true
	}
	if e.count+1 == e.period {
		return (e.sum + close) / float64(e.period), true
	}
	return 0, false
}
