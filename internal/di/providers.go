package di

import (
	"fmt"

	"CoinPulse/internal/domain/repository"
	"CoinPulse/internal/handler/api"
	"CoinPulse/internal/service/coingecko"
	"CoinPulse/internal/service/newsfeed"
	"CoinPulse/internal/service/reddit"
	"CoinPulse/internal/service/sentiment"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	"CoinPulse/pkg/logger"
	"CoinPulse/pkg/metrics"
	"CoinPulse/pkg/ratelimit"
	"CoinPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideRepositoryMetrics exposes the recorder as the domain interface.
func ProvideRepositoryMetrics(r *metrics.Recorder) repository.Metrics {
	return r
}

// ProvideCacheBackend creates the configured cache backend.
func ProvideCacheBackend(cfg *config.Config) (cache.Service, error) {
	memOpts := []cache.MemoryOption{}
	if cfg.Cache.Memory.MaxSize > 0 {
		memOpts = append(memOpts, cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize))
	}
	if cfg.Cache.Memory.CleanupInterval > 0 {
		memOpts = append(memOpts, cache.WithMemoryCleanup(cfg.Cache.Memory.CleanupInterval.Std()))
	}

	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(memOpts...), nil

	case "redis", "layered":
		redisCache, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		if cfg.Cache.Backend == "redis" {
			return redisCache, nil
		}
		return cache.NewLayeredCache(redisCache), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideCacheStore binds the backend to the category TTL table.
func ProvideCacheStore(backend cache.Service) *cache.Store {
	return cache.NewStore(backend, nil)
}

// ProvideRateLimiter creates the shared upstream token bucket registry.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideCoinGecko creates the CoinGecko client.
func ProvideCoinGecko(cfg *config.Config, limiter *ratelimit.Limiter, r *metrics.Recorder) *coingecko.Client {
	return coingecko.New(cfg, limiter, r)
}

// ProvidePriceSource exposes the CoinGecko client as a price source.
func ProvidePriceSource(c *coingecko.Client) repository.PriceSource {
	return c
}

// ProvideHistoricalSource exposes the CoinGecko client as a historical source.
func ProvideHistoricalSource(c *coingecko.Client) repository.HistoricalSource {
	return c
}

// ProvideReddit creates the subreddit headline client.
func ProvideReddit(cfg *config.Config, log *logger.Logger, r *metrics.Recorder) *reddit.Client {
	return reddit.New(cfg, log, r)
}

// ProvideNewsFeeds creates the RSS headline client.
func ProvideNewsFeeds(cfg *config.Config, log *logger.Logger) *newsfeed.Client {
	return newsfeed.New(cfg, log)
}

// ProvideScorer creates the keyword sentiment scorer.
func ProvideScorer() repository.SentimentScorer {
	return sentiment.NewAnalyzer()
}

// ProvidePrices creates the prices pipeline.
func ProvidePrices(store *cache.Store, source repository.PriceSource, cfg *config.Config, m repository.Metrics, log *logger.Logger) *usecase.Prices {
	return usecase.NewPrices(store, source, cfg, m, log)
}

// ProvideSentiment creates the sentiment report pipeline. The two headline
// clients enter here by concrete type; the usecase only sees the interface.
func ProvideSentiment(store *cache.Store, rd *reddit.Client, nf *newsfeed.Client, scorer repository.SentimentScorer, cfg *config.Config, m repository.Metrics, log *logger.Logger) *usecase.Sentiment {
	return usecase.NewSentiment(store, rd, nf, scorer, cfg, m, log)
}

// ProvideHistorical creates the fetch-once/slice-many historical pipeline.
func ProvideHistorical(store *cache.Store, source repository.HistoricalSource, cfg *config.Config, m repository.Metrics, log *logger.Logger) *usecase.Historical {
	return usecase.NewHistorical(store, source, cfg, m, log)
}

// ProvidePrediction creates the next-day prediction pipeline.
func ProvidePrediction(store *cache.Store, source repository.HistoricalSource, cfg *config.Config, m repository.Metrics, log *logger.Logger) *usecase.Prediction {
	return usecase.NewPrediction(store, source, cfg, m, log)
}

// ProvideRecommendation creates the signal aggregator.
func ProvideRecommendation(store *cache.Store, prices *usecase.Prices, source repository.HistoricalSource, sent *usecase.Sentiment, cfg *config.Config, m repository.Metrics, log *logger.Logger) *usecase.Recommendation {
	return usecase.NewRecommendation(store, prices, source, sent, cfg, m, log)
}

// ProvideMarketHandler creates the Echo route handler.
func ProvideMarketHandler(
	log *logger.Logger,
	store *cache.Store,
	prices *usecase.Prices,
	prediction *usecase.Prediction,
	sent *usecase.Sentiment,
	rec *usecase.Recommendation,
	hist *usecase.Historical,
) *api.MarketHandler {
	return api.NewMarketHandler(log, store, prices, prediction, sent, rec, hist)
}

// ProvideHTTPHandler exposes the market handler as the server's route set.
func ProvideHTTPHandler(h *api.MarketHandler) xhttp.Handler {
	return h
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, log *logger.Logger, store *cache.Store, handler xhttp.Handler) *server.App {
	return server.New(cfg, log, store, handler)
}
