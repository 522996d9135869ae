package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	"TradePulse/internal/prediction"
	"TradePulse/internal/service/cache"
	xhttp "TradePulse/pkg/http"
	"TradePulse/pkg/logger"
)

// predictCacheTTL keeps repeat queries off the lanes for a short window.
const predictCacheTTL = 30 * time.Second

// PredictUseCase serves on-demand predictions from lane snapshots.
type PredictUseCase struct {
	registry  *engine.Registry
	engine    *prediction.Engine
	sentiment domrepo.SentimentSource
	pub       domrepo.Publisher
	metrics   domrepo.Metrics
	cache     cache.BytesCache
	log       *logger.Logger
}

func NewPredictUseCase(registry *engine.Registry, eng *prediction.Engine,
	sentiment domrepo.SentimentSource, pub domrepo.Publisher,
	metrics domrepo.Metrics, c cache.BytesCache, log *logger.Logger) *PredictUseCase {
	return &PredictUseCase{
		registry:  registry,
		engine:    eng,
		sentiment: sentiment,
		pub:       pub,
		metrics:   metrics,
		cache:     c,
		log:       log,
	}
}

func (u *PredictUseCase) Predict(ctx context.Context, symbol string, interval models.Interval) (*models.Prediction, error) {
	key := models.SymbolKey{Symbol: symbol, Interval: interval}
	ck := fmt.Sprintf("predict:%s", key)
	if b, ok, _ := u.cache.GetBytes(ck); ok {
		var p models.Prediction
		if err := json.Unmarshal(b, &p); err == nil {
			return &p, nil
		}
	}

	snap, ok := u.registry.Snapshot(key)
	if !ok {
		return nil, xhttp.NotFoundErrorf("no active lane for %s", key)
	}

	close, ok := lastClose(snap)
	if !ok {
		return nil, xhttp.NotFoundErrorf("no price data yet for %s", key)
	}

	score, fresh, err := u.sentiment.Latest(ctx, symbol)
	if err != nil {
		// Degrade to neutral, never fail the prediction.
		u.metrics.RecordError("sentiment_fetch")
		u.log.Warn("sentiment unavailable", logger.String("symbol", symbol), logger.Error(err))
		fresh = false
	}
	if !fresh {
		u.metrics.RecordTickDropped("stale_sentiment")
	}

	p := u.engine.Predict(key, close, snap.Indicators, snap.Signals, score.Score, fresh, time.Now().UTC())
	u.metrics.RecordPrediction(string(p.Direction))
	if err := u.pub.PublishPrediction(ctx, p); err != nil {
		u.metrics.RecordError("publish_prediction")
	}

	if b, err := json.Marshal(p); err == nil {
		_ = u.cache.SetBytes(ck, b, predictCacheTTL)
	}
	return p, nil
}

func lastClose(snap engine.Snapshot) (float64, bool) {
	if snap.HasLive {
		return snap.Live.Close, true
	}
	if n := len(snap.Bars); n > 0 {
		return snap.Bars[n-1].Close, true
	}
	return 0, false
}
