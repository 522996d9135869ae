package repository

import (
	"context"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// Topics names the broadcast topics.
type Topics struct {
	Bars        string `yaml:"bars"`
	Signals     string `yaml:"signals"`
	Predictions string `yaml:"predictions"`
}

// KafkaPublisher broadcasts immutable pipeline snapshots. Keys are the
// symbol so downstream consumers keep per-symbol ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topics   Topics
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topics Topics) repository.Publisher {
	return &KafkaPublisher{producer: producer, topics: topics}
}

func (p *KafkaPublisher) PublishBar(ctx context.Context, key models.SymbolKey, bar models.Bar) error {
	return p.producer.Publish(ctx, p.topics.Bars, []byte(key.Symbol), map[string]interface{}{
		"symbol":    key.Symbol,
		"interval":  string(key.Interval),
		"open_time": bar.OpenTime.UnixMilli(),
		"open":      bar.Open,
		"high":      bar.High,
		"low":       bar.Low,
		"close":     bar.Close,
		"volume":    bar.Volume,
	})
}

func (p *KafkaPublisher) PublishSignal(ctx context.Context, s *models.Signal) error {
	return p.producer.Publish(ctx, p.topics.Signals, []byte(s.Symbol), s)
}

func (p *KafkaPublisher) PublishPrediction(ctx context.Context, pr *models.Prediction) error {
	return p.producer.Publish(ctx, p.topics.Predictions, []byte(pr.Symbol), pr)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops everything; used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBar(context.Context, models.SymbolKey, models.Bar) error { return nil }
func (NopPublisher) PublishSignal(context.Context, *models.Signal) error            { return nil }
func (NopPublisher) PublishPrediction(context.Context, *models.Prediction) error    { return nil }
func (NopPublisher) Close() error                                                   { return nil }

// MemoryBarStore is the no-persistence fallback: lanes start cold and keep
// bars only in their in-process window.
type MemoryBarStore struct{}

func (MemoryBarStore) Init(context.Context) error   { return nil }
func (MemoryBarStore) Health(context.Context) error { return nil }
func (MemoryBarStore) Close() error                 { return nil }
func (MemoryBarStore) Append(context.Context, models.SymbolKey, models.Bar) error {
	return nil
}
func (MemoryBarStore) LoadRecent(context.Context, models.SymbolKey, int) ([]models.Bar, error) {
	return nil, nil
}
