package indicator

import "math"

// Window is a fixed-size rolling window with a running sum.
type Window struct {
	size   int
	values []float64
	sum    float64
}

func NewWindow(size int) Window {
	return Window{size: size, values: make([]float64, 0, size)}
}

func (w *Window) Push(v float64) {
	if len(w.values) == w.size {
		w.sum -= w.values[0]
		w.values = append(w.values[:0], w.values[1:]...)
	}
	w.values = append(w.values, v)
	w.sum += v
}

func (w *Window) Full() bool { return len(w.values) == w.size }

func (w *Window) Mean() (float64, bool) {
	if !w.Full() {
		return 0, false
	}
	return w.sum / float64(w.size), true
}

// StdDev is the population standard deviation of the window.
func (w *Window) StdDev() (float64, bool) {
	mean, ok := w.Mean()
	if !ok {
		return 0, false
	}
	var ss float64
	for _, v := range w.values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(w.size)), true
}

// First returns the oldest value in a full window.
func (w *Window) First() (float64, bool) {
	if !w.Full() {
		return 0, false
	}
	return w.values[0], true
}

// MeanWith and StdDevWith evaluate the window as if v replaced the slot the
// next push would take, without mutating it.
func (w *Window) MeanWith(v float64) (float64, bool) {
	n := len(w.values)
	if n+1 < w.size {
		return 0, false
	}
	if n < w.size {
		return (w.sum + v) / float64(w.size), true
	}
	return (w.sum - w.values[0] + v) / float64(w.size), true
}

func (w *Window) StdDevWith(v float64) (float64, bool) {
	mean, ok := w.MeanWith(v)
	if !ok {
		return 0, false
	}
	start := 0
	if len(w.values) == w.size {
		start = 1
	}
	var ss float64
	for _, x := range w.values[start:] {
		d := x - mean
		ss += d * d
	}
	d := v - mean
	ss += d * d
	return math.Sqrt(ss / float64(w.size)), true
}

// MACD is the 12/26/9 moving average convergence divergence stack. The signal
// line seeds with the simple average of the first signalPeriod MACD values.
type MACD struct {
	fast   EMA
	slow   EMA
	signal EMA
}

func NewMACD(fast, slow, signal int) MACD {
	return MACD{fast: NewEMA(fast), slow: NewEMA(slow), signal: NewEMA(signal)}
}

func (m *MACD) Update(close float64) {
	m.fast.Update(close)
	m.slow.Update(close)
	f, fok := m.fast.Value()
	s, sok := m.slow.Value()
	if fok && sok {
		m.signal.Update(f - s)
	}
}

func (m *MACD) Value() (macd, signal, hist float64, ok bool) {
	f, fok := m.fast.Value()
	s, sok := m.slow.Value()
	if !fok || !sok {
		return 0, 0, 0, false
	}
	sig, sigok := m.signal.Value()
	if !sigok {
		return 0, 0, 0, false
	}
	macd = f - s
	return macd, sig, macd - sig, true
}

func (m *MACD) Peek(close float64) (macd, signal, hist float64, ok bool) {
	f, fok := m.fast.Peek(close)
	s, sok := m.slow.Peek(close)
	if !fok || !sok {
		return 0, 0, 0, false
	}
	line := f - s
	sig, sigok := m.signal.Peek(line)
	if !sigok {
		return 0, 0, 0, false
	}
	return line, sig, line - sig, true
}

// VWAP is a running volume-weighted average price over the lane's lifetime.
type VWAP struct {
	pvSum  float64
	volSum float64
}

func (v *VWAP) Update(price, volume float64) {
	v.pvSum += price * volume
	v.volSum += volume
}

func (v *VWAP) Value() (float64, bool) {
	if v.volSum <= 0 {
		return 0, false
	}
	return v.pvSum / v.volSum, true
}

func (v *VWAP) Peek(price, volume float64) (float64, bool) {
	pv, vol := v.pvSum+price*volume, v.volSum+volume
	if vol <= 0 {
		return 0, false
	}
	return pv / vol, true
}
