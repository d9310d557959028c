//go:build wireinject
// +build wireinject

package di

import (
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,

		// Observability
		ProvideMetrics,
		ProvideRepositoryMetrics,

		// Cache
		ProvideCacheBackend,
		ProvideCacheStore,

		// Upstream clients
		ProvideRateLimiter,
		ProvideCoinGecko,
		ProvidePriceSource,
		ProvideHistoricalSource,
		ProvideReddit,
		ProvideNewsFeeds,
		ProvideScorer,

		// Pipelines
		ProvidePrices,
		ProvideSentiment,
		ProvideHistorical,
		ProvidePrediction,
		ProvideRecommendation,

		// HTTP surface
		ProvideMarketHandler,
		ProvideHTTPHandler,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
