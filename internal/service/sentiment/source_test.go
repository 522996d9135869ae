package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradePulse/internal/service/cache"
	xhttp "TradePulse/pkg/http"
	"TradePulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func newServer(t *testing.T, score float64, ts time.Time) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sentiment", r.URL.Path)
		_ = json.NewEncoder(w).Encode(wireScore{
			Symbol:    r.URL.Query().Get("symbol"),
			Score:     score,
			Timestamp: ts.UnixMilli(),
		})
	}))
}

func TestLatestMapsWireScale(t *testing.T) {
	srv := newServer(t, 90, time.Now())
	defer srv.Close()

	src := NewHTTPSource(Config{BaseURL: srv.URL}, xhttp.NewClient(), cache.NewTTLCache(), testLogger(t))
	sc, ok, err := src.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	// Wire 90 on a 0..100 scale is +80 on [-100, 100].
	assert.InDelta(t, 80.0, sc.Score, 1e-9)
}

func TestStaleReadingIsNotOK(t *testing.T) {
	srv := newServer(t, 90, time.Now().Add(-2*time.Hour))
	defer srv.Close()

	src := NewHTTPSource(Config{BaseURL: srv.URL, MaxAge: 30 * time.Minute},
		xhttp.NewClient(), cache.NewTTLCache(), testLogger(t))
	_, ok, err := src.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.False(t, ok, "stale sentiment must read as missing")
}

func TestSecondReadHitsCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(wireScore{Symbol: "AAPL", Score: 60, Timestamp: time.Now().UnixMilli()})
	}))
	defer srv.Close()

	src := NewHTTPSource(Config{BaseURL: srv.URL}, xhttp.NewClient(), cache.NewTTLCache(), testLogger(t))
	ctx := context.Background()
	_, _, err := src.Latest(ctx, "AAPL")
	require.NoError(t, err)
	_, _, err = src.Latest(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchErrorReportsNotOK(t *testing.T) {
	src := NewHTTPSource(Config{BaseURL: "http://127.0.0.1:1"},
		xhttp.NewClient(xhttp.WithTimeout(200*time.Millisecond)), cache.NewTTLCache(), testLogger(t))
	_, ok, err := src.Latest(context.Background(), "AAPL")
	assert.False(t, ok)
	assert.Error(t, err)
}
