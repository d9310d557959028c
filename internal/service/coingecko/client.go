package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/pkg/config"
	phttp "CoinPulse/pkg/http"
	"CoinPulse/pkg/ratelimit"
)

// Client fetches spot and historical prices from the CoinGecko API. It
// implements both repository.PriceSource and repository.HistoricalSource.
type Client struct {
	baseURL           string
	fetcher           *phttp.Fetcher
	historicalTimeout time.Duration
}

// New builds a CoinGecko client; the fetcher's token bucket shields the
// free-tier upstream before its 429 responses ever trigger retries.
func New(cfg *config.Config, limiter *ratelimit.Limiter, metrics phttp.FetchMetrics) *Client {
	opts := []phttp.FetcherOption{
		phttp.WithFetchSource("coingecko"),
		phttp.WithMaxRetries(cfg.CoinGecko.MaxRetries),
		phttp.WithFetchTimeout(cfg.CoinGecko.Timeout.Std()),
	}
	if metrics != nil {
		opts = append(opts, phttp.WithFetchMetrics(metrics))
	}
	if limiter != nil && cfg.CoinGecko.RateLimit.Capacity > 0 {
		opts = append(opts, phttp.WithLimiter(limiter, "coingecko",
			cfg.CoinGecko.RateLimit.Capacity, cfg.CoinGecko.RateLimit.RefillPerSec))
	}
	return &Client{
		baseURL:           strings.TrimRight(cfg.CoinGecko.BaseURL, "/"),
		fetcher:           phttp.NewFetcher(opts...),
		historicalTimeout: cfg.CoinGecko.HistoricalTimeout.Std(),
	}
}

// CurrentPrices returns USD spot prices for a batch of CoinGecko ids in one
// upstream call.
func (c *Client) CurrentPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	var raw map[string]struct {
		USD float64 `json:"usd"`
	}
	err := c.fetcher.FetchJSON(ctx, c.baseURL+"/simple/price", map[string]string{
		"ids":           strings.Join(ids, ","),
		"vs_currencies": "usd",
	}, &raw)
	if err != nil {
		return nil, fmt.Errorf("coingecko prices: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for id, p := range raw {
		prices[id] = p.USD
	}
	return prices, nil
}

type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// Series returns the USD price series over the trailing days window, ascending
// by time. Long windows get a wider per-call timeout: a year of data is the
// slowest request this service makes.
func (c *Client) Series(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	var opts []phttp.FetchOption
	if days > 90 {
		opts = append(opts, phttp.WithRequestTimeout(c.historicalTimeout))
	}

	var chart marketChart
	url := fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, id)
	err := c.fetcher.FetchJSON(ctx, url, map[string]string{
		"vs_currency": "usd",
		"days":        strconv.Itoa(days),
	}, &chart, opts...)
	if err != nil {
		return nil, fmt.Errorf("coingecko market chart %s/%dd: %w", id, days, err)
	}
	return toPoints(chart), nil
}

// SeriesRange returns the USD price series between from and to.
func (c *Client) SeriesRange(ctx context.Context, id string, from, to time.Time) ([]models.PricePoint, error) {
	var chart marketChart
	url := fmt.Sprintf("%s/coins/%s/market_chart/range", c.baseURL, id)
	err := c.fetcher.FetchJSON(ctx, url, map[string]string{
		"vs_currency": "usd",
		"from":        strconv.FormatInt(from.Unix(), 10),
		"to":          strconv.FormatInt(to.Unix(), 10),
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("coingecko range %s: %w", id, err)
	}
	return toPoints(chart), nil
}

func toPoints(chart marketChart) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		points = append(points, models.PricePoint{TimestampMs: int64(p[0]), Value: p[1]})
	}
	return points
}
