//go:build wireinject
// +build wireinject

package di

import (
	"TradePulse/pkg/config"
	"TradePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarStore,
		ProvidePublisher,
		ProvideMarketStream,
		ProvideBytesCache,
		ProvideSentimentSource,

		// Pipeline
		ProvideFeed,
		ProvideRegistry,
		ProvideTickPipeline,

		// Use cases
		ProvideTickCollector,
		ProvideKafkaTicksHandler,
		ProvidePredictionEngine,
		ProvidePredictUseCase,
		ProvideChartUseCase,
		ProvideWatchlist,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
