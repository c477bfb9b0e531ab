//go:build wireinject
// +build wireinject

package di

import (
	"StockSense/pkg/config"
	"StockSense/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisClient,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideHoldingStore,
		ProvideWatchStore,
		ProvideTradeJournal,
		ProvideTradePublisher,
		ProvideQuoteStream,
		ProvideSentimentProvider,

		// Use cases
		ProvideQuoteBoard,
		ProvideQuoteProvider,
		ProvideQuoteCollector,
		ProvideAggregator,
		ProvideValuer,
		ProvideLedger,
		ProvideSentimentService,
		ProvideOrderExecutor,
		ProvidePortfolioService,
		ProvideWatchlistService,
		ProvideWarmupConsumer,
		ProvideKafkaTradesHandler,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
