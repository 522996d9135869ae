package repository

import (
	"context"

	"TradePulse/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher broadcasts immutable pipeline snapshots to the transport layer.
type Publisher interface {
	PublishBar(ctx context.Context, key models.SymbolKey, bar models.Bar) error
	PublishSignal(ctx context.Context, s *models.Signal) error
	PublishPrediction(ctx context.Context, p *models.Prediction) error
	Close() error
}

// BarStore persists sealed bars and serves the bootstrap window for new lanes.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Append(ctx context.Context, key models.SymbolKey, bar models.Bar) error
	LoadRecent(ctx context.Context, key models.SymbolKey, n int) ([]models.Bar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// SentimentSource yields the latest external sentiment score for a symbol.
// Implementations return ok=false for missing or stale readings; callers
// treat that as neutral, never as an error.
type SentimentSource interface {
	Latest(ctx context.Context, symbol string) (models.SentimentScore, bool, error)
}

type Metrics interface {
	RecordTick(symbol string)
	RecordTickDropped(reason string)
	RecordBarSealed(symbol, interval string)
	RecordSignal(strategy, side string)
	RecordPrediction(direction string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	SetLaneStale(key string, stale bool)
}
