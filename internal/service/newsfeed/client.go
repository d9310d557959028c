package newsfeed

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"CoinPulse/pkg/config"
	"CoinPulse/pkg/logger"
)

// Client pulls headline titles out of RSS/Atom news feeds. It implements
// repository.HeadlineSource with the feed URL as topic.
type Client struct {
	parser  *gofeed.Parser
	limit   int
	timeout time.Duration
	logger  *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		parser:  gofeed.NewParser(),
		limit:   cfg.Feeds.Limit,
		timeout: cfg.Feeds.Timeout.Std(),
		logger:  log,
	}
}

// Headlines returns up to limit item titles from the feed at url. Like the
// other headline pools it degrades to an empty slice when the feed is down
// or unparsable.
func (c *Client) Headlines(ctx context.Context, url string, limit int) []string {
	if limit <= 0 {
		limit = c.limit
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feed, err := c.parser.ParseURLWithContext(url, fetchCtx)
	if err != nil {
		c.logger.Warn("news feed unavailable",
			logger.String("url", url),
			logger.Error(err),
		)
		return []string{}
	}

	titles := make([]string, 0, limit)
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		titles = append(titles, item.Title)
		if len(titles) >= limit {
			break
		}
	}
	return titles
}
