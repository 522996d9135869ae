// Package sentiment reads the external sentiment collaborator's scores.
// Classification itself happens elsewhere; this side only consumes numeric
// scores and treats anything missing or stale as neutral.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	drepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/service/cache"
	xhttp "TradePulse/pkg/http"
	"TradePulse/pkg/logger"
)

// Config for the HTTP sentiment source.
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	MaxAge   time.Duration `yaml:"max_age"`  // readings older than this are stale
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// HTTPSource pulls scores from a sentiment service over HTTP and caches
// them in a BytesCache (memory or Redis).
type HTTPSource struct {
	cfg    Config
	client *xhttp.Client
	cache  cache.BytesCache
	log    *logger.Logger
}

var _ drepo.SentimentSource = (*HTTPSource)(nil)

func NewHTTPSource(cfg Config, client *xhttp.Client, c cache.BytesCache, log *logger.Logger) *HTTPSource {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30 * time.Minute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &HTTPSource{cfg: cfg, client: client, cache: c, log: log}
}

type wireScore struct {
	Symbol    string  `json:"symbol"`
	Score     float64 `json:"score"` // 0..100, 50 is neutral
	Timestamp int64   `json:"timestamp"`
}

// Latest returns the newest score for a symbol mapped to [-100, 100].
// ok=false means missing or stale; callers score it neutral. A transport
// error is returned alongside ok=false so callers can count it, but it
// never has to stop a prediction.
func (s *HTTPSource) Latest(ctx context.Context, symbol string) (models.SentimentScore, bool, error) {
	if sc, ok := s.fromCache(symbol); ok {
		return s.freshness(sc)
	}

	var w wireScore
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         fmt.Sprintf("%s/sentiment", s.cfg.BaseURL),
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &w)
	if err != nil {
		return models.SentimentScore{}, false, fmt.Errorf("sentiment fetch %s: %w", symbol, err)
	}

	sc := models.SentimentScore{
		Symbol:    symbol,
		Score:     (w.Score - 50) * 2, // 0..100 wire scale to [-100, 100]
		Timestamp: time.UnixMilli(w.Timestamp).UTC(),
	}
	s.toCache(symbol, sc)
	return s.freshness(sc)
}

func (s *HTTPSource) freshness(sc models.SentimentScore) (models.SentimentScore, bool, error) {
	if time.Since(sc.Timestamp) > s.cfg.MaxAge {
		return sc, false, nil
	}
	return sc, true, nil
}

func (s *HTTPSource) fromCache(symbol string) (models.SentimentScore, bool) {
	if s.cache == nil {
		return models.SentimentScore{}, false
	}
	b, ok, err := s.cache.GetBytes(cacheKey(symbol))
	if err != nil || !ok {
		return models.SentimentScore{}, false
	}
	var sc models.SentimentScore
	if err := json.Unmarshal(b, &sc); err != nil {
		return models.SentimentScore{}, false
	}
	return sc, true
}

func (s *HTTPSource) toCache(symbol string, sc models.SentimentScore) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(sc)
	if err != nil {
		return
	}
	if err := s.cache.SetBytes(cacheKey(symbol), b, s.cfg.CacheTTL); err != nil {
		s.log.Warn("sentiment cache write failed", logger.String("symbol", symbol), logger.Error(err))
	}
}

func cacheKey(symbol string) string { return "sentiment:" + symbol }
