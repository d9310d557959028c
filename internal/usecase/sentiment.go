package usecase

import (
	"context"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository"
	"CoinPulse/pkg/cache"
	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

// Sentiment builds per-asset sentiment reports out of independently cached
// headline pools: one subreddit per asset plus the shared market-news feeds.
type Sentiment struct {
	store   *cache.Store
	reddit  repository.HeadlineSource
	feeds   repository.HeadlineSource
	scorer  repository.SentimentScorer
	assets  []config.Asset
	sources []config.Feed
	limit   int
	metrics repository.Metrics
	logger  *logger.Logger
}

func NewSentiment(store *cache.Store, reddit, feeds repository.HeadlineSource, scorer repository.SentimentScorer, cfg *config.Config, metrics repository.Metrics, log *logger.Logger) *Sentiment {
	return &Sentiment{
		store:   store,
		reddit:  reddit,
		feeds:   feeds,
		scorer:  scorer,
		assets:  cfg.Assets,
		sources: cfg.Feeds.Sources,
		limit:   cfg.Feeds.Limit,
		metrics: metrics,
		logger:  log,
	}
}

func sentimentKey(symbol string) string {
	return cache.GenerateKey("sentiment", symbol)
}

// Report builds the sentiment report for every tracked asset.
func (s *Sentiment) Report(ctx context.Context, limit int) map[string]models.AssetSentiment {
	out := make(map[string]models.AssetSentiment, len(s.assets))
	for _, a := range s.assets {
		out[a.Symbol] = s.AssetReport(ctx, a, limit)
	}
	return out
}

// AssetReport returns one asset's report, serving a cached one when fresh.
// The recommendation aggregator calls this too and reuses the report's pool
// averages instead of rescoring headlines.
func (s *Sentiment) AssetReport(ctx context.Context, asset config.Asset, limit int) models.AssetSentiment {
	if limit <= 0 {
		limit = s.limit
	}

	var cached models.AssetSentiment
	if err := s.store.Get(ctx, sentimentKey(asset.Symbol), &cached); err == nil {
		s.metrics.RecordCacheHit(string(cache.CategoryHeadlines))
		return cached
	}
	s.metrics.RecordCacheMiss(string(cache.CategoryHeadlines))

	report := models.AssetSentiment{Symbol: asset.Symbol}
	if asset.Subreddit != "" {
		titles := s.pool(ctx, cache.CategoryHeadlines,
			cache.GenerateKey("headlines", asset.Subreddit),
			func() []string { return s.reddit.Headlines(ctx, asset.Subreddit, limit) })
		report.Pools = append(report.Pools, s.scorePool("r/"+asset.Subreddit, titles))
	}
	for _, feed := range s.sources {
		url := feed.URL
		titles := s.pool(ctx, cache.CategoryNewsFeeds,
			cache.GenerateKey("news_feeds", feed.Name),
			func() []string { return s.feeds.Headlines(ctx, url, limit) })
		report.Pools = append(report.Pools, s.scorePool(feed.Name, titles))
	}

	if err := s.store.Set(ctx, sentimentKey(asset.Symbol), report, cache.CategoryHeadlines); err != nil {
		s.logger.Warn("cache sentiment report", logger.String("symbol", asset.Symbol), logger.Error(err))
	}
	return report
}

// pool returns cached headlines for a key, fetching and caching on a miss.
// Empty results are cached too: a dead upstream should not be re-polled on
// every request within the pool's TTL.
func (s *Sentiment) pool(ctx context.Context, cat cache.Category, key string, fetch func() []string) []string {
	var titles []string
	if err := s.store.Get(ctx, key, &titles); err == nil {
		s.metrics.RecordCacheHit(string(cat))
		return titles
	}
	s.metrics.RecordCacheMiss(string(cat))

	titles = fetch()
	if err := s.store.Set(ctx, key, titles, cat); err != nil {
		s.logger.Warn("cache headlines", logger.String("key", key), logger.Error(err))
	}
	return titles
}

// scorePool scores each headline and summarizes. An empty pool yields the
// {0, []} identity, never an error.
func (s *Sentiment) scorePool(name string, titles []string) models.PoolSentiment {
	scores := make([]float64, 0, len(titles))
	var sum float64
	for _, t := range titles {
		score := s.scorer.Polarity(t)
		scores = append(scores, score)
		sum += score
	}

	summary := models.SentimentSummary{Average: 0, Scores: scores}
	if len(scores) > 0 {
		summary.Average = sum / float64(len(scores))
	}
	if titles == nil {
		titles = []string{}
	}
	return models.PoolSentiment{Pool: name, Headlines: titles, Sentiment: summary}
}
