package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	mid "TradePulse/internal/middleware"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaTicksHandler is the alternate ingest path: ticks arrive on a Kafka
// topic instead of the WebSocket stream and feed the same pipeline.
type KafkaTicksHandler struct {
	topic   string
	pipe    *mid.TickPipeline
	metrics domrepo.Metrics
}

func NewKafkaTicksHandler(topic string, pipe *mid.TickPipeline, metrics domrepo.Metrics) *KafkaTicksHandler {
	return &KafkaTicksHandler{topic: topic, pipe: pipe, metrics: metrics}
}

func (h *KafkaTicksHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, t, c, v}, t in seconds or ms
func (h *KafkaTicksHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		T      int64   `json:"t"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T < 1e11 { // seconds
		m.T = m.T * 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.UnixMilli(m.T)).Seconds())

	return h.pipe.Process(ctx, &models.Tick{
		Symbol:    m.Symbol,
		Timestamp: m.T,
		Price:     m.C,
		Volume:    m.V,
	})
}

var _ pkgkafka.MessageHandler = (*KafkaTicksHandler)(nil)
