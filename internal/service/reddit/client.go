package reddit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"CoinPulse/pkg/config"
	phttp "CoinPulse/pkg/http"
	"CoinPulse/pkg/logger"
)

// Client pulls hot post titles from a subreddit. It implements
// repository.HeadlineSource.
type Client struct {
	baseURL string
	limit   int
	fetcher *phttp.Fetcher
	logger  *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger, metrics phttp.FetchMetrics) *Client {
	opts := []phttp.FetcherOption{
		phttp.WithFetchSource("reddit"),
		phttp.WithFetchTimeout(cfg.Reddit.Timeout.Std()),
		phttp.WithFetchHeaders(map[string]string{"User-Agent": cfg.Reddit.UserAgent}),
	}
	if metrics != nil {
		opts = append(opts, phttp.WithFetchMetrics(metrics))
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Reddit.BaseURL, "/"),
		limit:   cfg.Reddit.Limit,
		fetcher: phttp.NewFetcher(opts...),
		logger:  log,
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title    string `json:"title"`
				Stickied bool   `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Headlines returns up to limit hot post titles from the subreddit, skipping
// stickied mod posts. Failures degrade to an empty slice: one dead headline
// pool must not take the sentiment report down.
func (c *Client) Headlines(ctx context.Context, subreddit string, limit int) []string {
	if limit <= 0 {
		limit = c.limit
	}

	// Stickied posts sit at the head of the listing, so over-fetch a little
	// to still fill the limit after skipping them.
	url := fmt.Sprintf("%s/r/%s/hot.json", c.baseURL, subreddit)
	var l listing
	err := c.fetcher.FetchJSON(ctx, url, map[string]string{
		"limit": strconv.Itoa(limit + 2),
	}, &l)
	if err != nil {
		c.logger.Warn("reddit headlines unavailable",
			logger.String("subreddit", subreddit),
			logger.Error(err),
		)
		return []string{}
	}

	titles := make([]string, 0, limit)
	for _, child := range l.Data.Children {
		if child.Data.Stickied {
			continue
		}
		if child.Data.Title == "" {
			continue
		}
		titles = append(titles, child.Data.Title)
		if len(titles) >= limit {
			break
		}
	}
	return titles
}
