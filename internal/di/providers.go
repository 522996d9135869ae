package di

import (
	"context"
	"fmt"
	"time"

	"TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	"TradePulse/internal/handler/api"
	mid "TradePulse/internal/middleware"
	"TradePulse/internal/prediction"
	internalrepo "TradePulse/internal/repository"
	"TradePulse/internal/service/cache"
	"TradePulse/internal/service/sentiment"
	"TradePulse/internal/service/stream"
	"TradePulse/internal/usecase"
	pkgch "TradePulse/pkg/clickhouse"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	pkgkafka "TradePulse/pkg/kafka"
	"TradePulse/pkg/logger"
	"TradePulse/pkg/metrics"
	"TradePulse/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := &logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return logger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.NewRecorder()
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// bar store runs in memory only.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddl := append([]string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
	}, internalrepo.Schema(barTable(cfg))...)
	if err := client.InitSchema(ctx, ddl); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

func barTable(cfg *config.Config) string {
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "bars"
	}
	return cfg.ClickHouse.Database + "." + table
}

// ProvideBarStore creates the sealed-bar store backing lane bootstrap.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config) repository.BarStore {
	if chClient == nil {
		return internalrepo.MemoryBarStore{}
	}
	return internalrepo.NewClickHouseBarStore(chClient.DB(), barTable(cfg))
}

// ProvideKafkaProducer creates a Kafka producer, or nil without brokers.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvidePublisher creates the broadcast publisher for bars, signals and
// predictions.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return internalrepo.NopPublisher{}
	}
	return internalrepo.NewKafkaPublisher(producer, internalrepo.Topics{
		Bars:        cfg.Kafka.Topics.Bars,
		Signals:     cfg.Kafka.Topics.Signals,
		Predictions: cfg.Kafka.Topics.Predictions,
	})
}

// ProvideFeed creates the shared recent-signal ring.
func ProvideFeed(cfg *config.Config) *engine.Feed {
	return engine.NewFeed(cfg.Engine.FeedSize)
}

// ProvideRegistry creates the lane registry.
func ProvideRegistry(cfg *config.Config, store repository.BarStore, pub repository.Publisher,
	m repository.Metrics, log *logger.Logger, feed *engine.Feed) *engine.Registry {
	return engine.NewRegistry(engine.Config{
		Retention:   cfg.Engine.Retention,
		TickBuffer:  cfg.Engine.TickBuffer,
		QuietPeriod: cfg.Engine.QuietPeriod,
	}, store, pub, m, log, feed)
}

// ProvideTickPipeline builds the validate/throttle stage between ingest
// and the lane registry.
func ProvideTickPipeline(registry *engine.Registry, m repository.Metrics, cfg *config.Config) *mid.TickPipeline {
	var opts []mid.PipelineOption
	if cfg.Engine.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Engine.MaxRPS))
	}
	if cfg.Engine.TickBuffer > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Engine.TickBuffer))
	}
	return mid.NewTickPipeline(registry, m, opts...)
}

// ProvideMarketStream creates the WebSocket market stream, or nil for
// kafka ingest.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	if cfg.Ingest.Type != "websocket" {
		return nil
	}
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
	)
}

// ProvideTickCollector creates the WebSocket ingest use case.
func ProvideTickCollector(ms repository.MarketStream, pipe *mid.TickPipeline,
	m repository.Metrics, registry *engine.Registry) *usecase.TickCollector {
	if ms == nil {
		return nil
	}
	return usecase.NewTickCollector(ms, pipe, m, registry.Symbols)
}

// ProvideKafkaConsumer creates a Kafka consumer for kafka ingest.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Ingest.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideKafkaTicksHandler registers the handler for the ticks topic.
func ProvideKafkaTicksHandler(cfg *config.Config, pipe *mid.TickPipeline, m repository.Metrics) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.TicksTopic, pipe, m)
}

// ProvideBytesCache picks Redis when configured, in-process TTL otherwise.
func ProvideBytesCache(cfg *config.Config) cache.BytesCache {
	if cfg.Redis.Enabled {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cache.NewTTLCache()
}

// ProvideSentimentSource creates the HTTP sentiment source.
func ProvideSentimentSource(cfg *config.Config, c cache.BytesCache, log *logger.Logger) repository.SentimentSource {
	timeout := cfg.Sentiment.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return sentiment.NewHTTPSource(sentiment.Config{
		BaseURL:  cfg.Sentiment.BaseURL,
		MaxAge:   cfg.Sentiment.MaxAge,
		CacheTTL: cfg.Sentiment.CacheTTL,
	}, xhttp.NewClient(xhttp.WithTimeout(timeout)), c, log)
}

// ProvidePredictionEngine creates the score-fusion engine.
func ProvidePredictionEngine(cfg *config.Config) *prediction.Engine {
	return prediction.NewEngine(prediction.Config{
		TechWeight:      cfg.Prediction.TechWeight,
		SentimentWeight: cfg.Prediction.SentimentWeight,
		Threshold:       cfg.Prediction.Threshold,
		SignalWindow:    cfg.Prediction.SignalWindow,
	})
}

// ProvidePredictUseCase creates the prediction use case.
func ProvidePredictUseCase(registry *engine.Registry, eng *prediction.Engine,
	src repository.SentimentSource, pub repository.Publisher,
	m repository.Metrics, c cache.BytesCache, log *logger.Logger) *usecase.PredictUseCase {
	return usecase.NewPredictUseCase(registry, eng, src, pub, m, c, log)
}

// ProvideChartUseCase creates the chart use case.
func ProvideChartUseCase(registry *engine.Registry) *usecase.ChartUseCase {
	return usecase.NewChartUseCase(registry)
}

// ProvideWatchlist creates the watchlist use case.
func ProvideWatchlist(registry *engine.Registry, log *logger.Logger) *usecase.Watchlist {
	return usecase.NewWatchlist(registry, log)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(log *logger.Logger, registry *engine.Registry,
	watchlist *usecase.Watchlist, predict *usecase.PredictUseCase,
	chart *usecase.ChartUseCase, collector *usecase.TickCollector) *api.Handler {
	connected := func() bool {
		if collector == nil {
			return true // kafka ingest has no stream to report on
		}
		return collector.IsConnected()
	}
	return api.NewHandler(log, registry, watchlist, predict, chart, connected)
}

// kafkaLogSink ships aggregated error logs to a Kafka topic.
type kafkaLogSink struct {
	producer *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	registry *engine.Registry,
	watchlist *usecase.Watchlist,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	handler *api.Handler,
	producer *pkgkafka.Producer,
	pub repository.Publisher,
	store repository.BarStore,
) *server.App {
	if producer != nil {
		log.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "tp.logs",
			Publisher:      kafkaLogSink{producer: producer},
		})
	}
	return server.New(cfg, log, registry, watchlist, collector, consumer, kh, handler, pub, store)
}
