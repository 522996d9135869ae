package indicator

import "TradePulse/internal/domain/models"

// Supertrend tracks ATR bands around hl2 with band ratcheting and a sticky
// direction. The direction flips only when the close strictly crosses the
// band on the opposite side of price.
type Supertrend struct {
	factor    float64
	atr       ATR
	upper     float64
	lower     float64
	dir       models.TrendDirection
	prevClose float64
	hasBands  bool
}

func NewSupertrend(factor float64, atrPeriod int) Supertrend {
	return Supertrend{factor: factor, atr: NewATR(atrPeriod)}
}

func (s *Supertrend) Update(high, low, close float64) {
	s.atr.Update(high, low, close)
	av, ok := s.atr.Value()
	if !ok {
		s.prevClose = close
		return
	}

	hl2 := (high + low) / 2
	basicUpper := hl2 + s.factor*av
	basicLower := hl2 - s.factor*av

	if !s.hasBands {
		s.upper, s.lower = basicUpper, basicLower
		if close < basicLower {
			s.dir = models.TrendBearish
		} else {
			s.dir = models.TrendBullish
		}
		s.prevClose = close
		s.hasBands = true
		return
	}

	// Ratchet: bands only tighten unless price closed through them.
	if basicUpper < s.upper || s.prevClose > s.upper {
		s.upper = basicUpper
	}
	if basicLower > s.lower || s.prevClose < s.lower {
		s.lower = basicLower
	}

	if s.dir == models.TrendBullish && close < s.lower {
		s.dir = models.TrendBearish
	} else if s.dir == models.TrendBearish && close > s.upper {
		s.dir = models.TrendBullish
	}
	s.prevClose = close
}

// State returns the active band value and direction.
func (s *Supertrend) State() models.SupertrendState {
	if !s.hasBands {
		return models.SupertrendState{}
	}
	st := models.SupertrendState{Direction: s.dir, Defined: true}
	if s.dir == models.TrendBullish {
		st.Value = s.lower
	} else {
		st.Value = s.upper
	}
	return st
}

// Peek returns the state as if the live bar sealed now. State is untouched.
func (s *Supertrend) Peek(high, low, close float64) models.SupertrendState {
	tmp := *s
	tmp.Update(high, low, close)
	return tmp.State()
}
