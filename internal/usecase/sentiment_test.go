package usecase

import (
	"context"
	"math"
	"testing"

	"CoinPulse/pkg/config"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sentimentFixture() (*Sentiment, *fakeHeadlines, *fakeHeadlines) {
	cfg := testAssets()
	cfg.Feeds.Sources = []config.Feed{
		{Name: "coindesk", URL: "https://feeds.example.com/coindesk"},
		{Name: "cointelegraph", URL: "https://feeds.example.com/cointelegraph"},
	}
	reddit := &fakeHeadlines{titles: map[string][]string{
		"Bitcoin":  {"rally on", "crash incoming"},
		"Ethereum": {"upgrade ships"},
	}}
	feeds := &fakeHeadlines{titles: map[string][]string{
		"https://feeds.example.com/coindesk":      {"etf approved"},
		"https://feeds.example.com/cointelegraph": {},
	}}
	scorer := &fixedScorer{scores: map[string]float64{
		"rally on":       0.8,
		"crash incoming": -0.4,
		"upgrade ships":  0.5,
		"etf approved":   0.6,
	}}
	s := NewSentiment(newTestStore(), reddit, feeds, scorer, cfg, nopMetrics{}, testLogger)
	return s, reddit, feeds
}

func TestAssetReportPoolsAndAverages(t *testing.T) {
	s, _, _ := sentimentFixture()
	cfg := testAssets()

	report := s.AssetReport(context.Background(), cfg.Assets[0], 10)
	if report.Symbol != "BTC" {
		t.Fatalf("symbol = %q", report.Symbol)
	}
	// subreddit pool + two feed pools
	if len(report.Pools) != 3 {
		t.Fatalf("got %d pools, want 3", len(report.Pools))
	}

	sub := report.Pools[0]
	if sub.Pool != "r/Bitcoin" {
		t.Errorf("pool name = %q", sub.Pool)
	}
	if got := sub.Sentiment.Average; !approx(got, 0.2) {
		t.Errorf("subreddit average = %v, want 0.2", got)
	}
	if len(sub.Sentiment.Scores) != 2 {
		t.Errorf("subreddit scores = %v", sub.Sentiment.Scores)
	}
}

func TestEmptyPoolIdentity(t *testing.T) {
	s, _, _ := sentimentFixture()
	cfg := testAssets()

	report := s.AssetReport(context.Background(), cfg.Assets[0], 10)
	empty := report.Pools[2]
	if empty.Pool != "cointelegraph" {
		t.Fatalf("pool name = %q", empty.Pool)
	}
	if empty.Sentiment.Average != 0 {
		t.Errorf("empty pool average = %v, want 0", empty.Sentiment.Average)
	}
	if empty.Sentiment.Scores == nil || len(empty.Sentiment.Scores) != 0 {
		t.Errorf("empty pool scores = %v, want []", empty.Sentiment.Scores)
	}
	if empty.Headlines == nil {
		t.Error("headlines must be an empty slice, not nil")
	}
}

func TestAggregateAveragesPoolAverages(t *testing.T) {
	s, _, _ := sentimentFixture()
	cfg := testAssets()

	report := s.AssetReport(context.Background(), cfg.Assets[0], 10)
	// pools: 0.2, 0.6, 0.0 -> average of averages
	want := (0.8-0.4)/2/3 + 0.6/3
	if got := report.Aggregate(); !approx(got, want) {
		t.Fatalf("aggregate = %v, want %v", got, want)
	}
}

func TestReportCachesHeadlinePools(t *testing.T) {
	s, reddit, feeds := sentimentFixture()

	s.Report(context.Background(), 10)
	redditCalls, feedCalls := reddit.calls, feeds.calls

	s.Report(context.Background(), 10)
	if reddit.calls != redditCalls || feeds.calls != feedCalls {
		t.Fatalf("cached report refetched headlines: reddit %d->%d feeds %d->%d",
			redditCalls, reddit.calls, feedCalls, feeds.calls)
	}
}

func TestSharedFeedPoolsFetchedOncePerTTL(t *testing.T) {
	s, _, feeds := sentimentFixture()
	cfg := testAssets()

	// Both assets share the market-news pools; the second asset's report
	// must reuse the cached feed headlines.
	s.AssetReport(context.Background(), cfg.Assets[0], 10)
	after := feeds.calls
	s.AssetReport(context.Background(), cfg.Assets[1], 10)
	if feeds.calls != after {
		t.Fatalf("feed fetches = %d, want %d", feeds.calls, after)
	}
}
