// Package marketclock answers "is this exchange trading right now" from a
// built-in session table. It is stateless and holiday-unaware; calendar data
// is an external concern.
package marketclock

import (
	"strings"
	"time"
)

const (
	ExchangeNSE    = "NSE"
	ExchangeNYSE   = "NYSE"
	ExchangeNASDAQ = "NASDAQ"
	ExchangeLSE    = "LSE"
	ExchangeCrypto = "CRYPTO"
)

type session struct {
	tz         string
	openHour   int
	openMin    int
	closeHour  int
	closeMin   int
	continuous bool
}

var sessions = map[string]session{
	ExchangeNSE:    {tz: "Asia/Kolkata", openHour: 9, openMin: 15, closeHour: 15, closeMin: 30},
	ExchangeNYSE:   {tz: "America/New_York", openHour: 9, openMin: 30, closeHour: 16},
	ExchangeNASDAQ: {tz: "America/New_York", openHour: 9, openMin: 30, closeHour: 16},
	ExchangeLSE:    {tz: "Europe/London", openHour: 8, closeHour: 16, closeMin: 30},
	ExchangeCrypto: {continuous: true},
}

// Exchanges lists the exchanges the clock knows about.
func Exchanges() []string {
	return []string{ExchangeNSE, ExchangeNYSE, ExchangeNASDAQ, ExchangeLSE, ExchangeCrypto}
}

// ExchangeForSymbol resolves a ticker suffix to its exchange.
// Unknown suffixes default to NYSE hours.
func ExchangeForSymbol(symbol string) string {
	s := strings.ToUpper(symbol)
	switch {
	case strings.HasSuffix(s, ".NS"), strings.HasSuffix(s, ".BO"):
		return ExchangeNSE
	case strings.HasSuffix(s, ".L"):
		return ExchangeLSE
	case strings.HasSuffix(s, "-USD"), strings.HasSuffix(s, "USDT"):
		return ExchangeCrypto
	default:
		return ExchangeNYSE
	}
}

// LocalTime converts an instant to the exchange's local wall clock.
// Unknown exchanges stay in UTC.
func LocalTime(exchange string, at time.Time) time.Time {
	sess, ok := sessions[exchange]
	if !ok || sess.continuous {
		return at.UTC()
	}
	loc, err := time.LoadLocation(sess.tz)
	if err != nil {
		return at.UTC()
	}
	return at.In(loc)
}

// IsOpen reports whether the exchange is inside its regular session at the
// given instant. Weekends are closed; unknown exchanges report closed.
func IsOpen(exchange string, at time.Time) bool {
	sess, ok := sessions[exchange]
	if !ok {
		return false
	}
	if sess.continuous {
		return true
	}
	local := LocalTime(exchange, at)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	open := sess.openHour*60 + sess.openMin
	close := sess.closeHour*60 + sess.closeMin
	return minute >= open && minute < close
}

// SessionOpen returns the session open instant for the trading day containing
// the given instant, in the exchange's local zone. Continuous and unknown
// exchanges align to UTC midnight.
func SessionOpen(exchange string, at time.Time) time.Time {
	sess, ok := sessions[exchange]
	if !ok || sess.continuous {
		return at.UTC().Truncate(24 * time.Hour)
	}
	local := LocalTime(exchange, at)
	return time.Date(local.Year(), local.Month(), local.Day(), sess.openHour, sess.openMin, 0, 0, local.Location())
}

// Session reports open state and local time for one exchange.
func Session(exchange string, at time.Time) (isOpen bool, local time.Time) {
	return IsOpen(exchange, at), LocalTime(exchange, at)
}

// OpenExchanges lists the exchanges trading at the given instant.
func OpenExchanges(at time.Time) []string {
	var open []string
	for _, ex := range Exchanges() {
		if IsOpen(ex, at) {
			open = append(open, ex)
		}
	}
	return open
}
