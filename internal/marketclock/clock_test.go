package marketclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeForSymbol(t *testing.T) {
	assert.Equal(t, ExchangeNSE, ExchangeForSymbol("RELIANCE.NS"))
	assert.Equal(t, ExchangeNSE, ExchangeForSymbol("TATAMOTORS.BO"))
	assert.Equal(t, ExchangeLSE, ExchangeForSymbol("VOD.L"))
	assert.Equal(t, ExchangeCrypto, ExchangeForSymbol("BTC-USD"))
	assert.Equal(t, ExchangeNYSE, ExchangeForSymbol("AAPL"))
}

func TestIsOpenNSE(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// Wednesday mid-session.
	open := time.Date(2026, 8, 26, 11, 0, 0, 0, ist)
	assert.True(t, IsOpen(ExchangeNSE, open))

	// One minute before the bell.
	early := time.Date(2026, 8, 26, 9, 14, 0, 0, ist)
	assert.False(t, IsOpen(ExchangeNSE, early))

	// Exactly at the close.
	closeAt := time.Date(2026, 8, 26, 15, 30, 0, 0, ist)
	assert.False(t, IsOpen(ExchangeNSE, closeAt))

	// Saturday.
	weekend := time.Date(2026, 8, 29, 11, 0, 0, 0, ist)
	assert.False(t, IsOpen(ExchangeNSE, weekend))
}

func TestIsOpenNYSEFromUTC(t *testing.T) {
	// 15:00 UTC on a weekday is 11:00 or 10:00 New York, always in session.
	at := time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)
	assert.True(t, IsOpen(ExchangeNYSE, at))
	assert.True(t, IsOpen(ExchangeNASDAQ, at))

	// 02:00 UTC is overnight in New York.
	night := time.Date(2026, 8, 26, 2, 0, 0, 0, time.UTC)
	assert.False(t, IsOpen(ExchangeNYSE, night))
}

func TestCryptoAlwaysOpen(t *testing.T) {
	assert.True(t, IsOpen(ExchangeCrypto, time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)))
}

func TestUnknownExchangeClosed(t *testing.T) {
	assert.False(t, IsOpen("TSE", time.Now()))
}

func TestSessionOpenAlignment(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at := time.Date(2026, 8, 26, 13, 47, 0, 0, ist)
	open := SessionOpen(ExchangeNSE, at)
	assert.Equal(t, 9, open.Hour())
	assert.Equal(t, 15, open.Minute())
	assert.Equal(t, at.Day(), open.Day())
}

func TestOpenExchangesContainsCrypto(t *testing.T) {
	open := OpenExchanges(time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC))
	assert.Contains(t, open, ExchangeCrypto)
}
