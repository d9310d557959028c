package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	fetchAttempts   *prometheus.CounterVec
	fetchRetries    *prometheus.CounterVec
	staleServed     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	upstreamLatency *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_cache_hits_total",
				Help: "Total number of cache hits per category",
			},
			[]string{"category"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_cache_misses_total",
				Help: "Total number of cache misses per category",
			},
			[]string{"category"},
		),
		fetchAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_fetch_attempts_total",
				Help: "Total number of upstream fetch attempts",
			},
			[]string{"source"},
		),
		fetchRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_fetch_retries_total",
				Help: "Total number of upstream fetch retries by reason",
			},
			[]string{"source", "reason"},
		),
		staleServed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinpulse_stale_served_total",
				Help: "Total number of responses served from stale cache data",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coinpulse_last_price_usd",
				Help: "Last observed USD price for a symbol",
			},
			[]string{"symbol"},
		),
		upstreamLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coinpulse_upstream_request_duration_seconds",
				Help:    "Duration of upstream requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
}

// RecordCacheHit records a fresh cache read for a category.
func (r *Recorder) RecordCacheHit(category string) {
	r.cacheHits.WithLabelValues(category).Inc()
}

// RecordCacheMiss records a cache miss for a category.
func (r *Recorder) RecordCacheMiss(category string) {
	r.cacheMisses.WithLabelValues(category).Inc()
}

// RecordFetchAttempt records one upstream request attempt.
func (r *Recorder) RecordFetchAttempt(source string) {
	r.fetchAttempts.WithLabelValues(source).Inc()
}

// RecordFetchRetry records a retry and its trigger.
func (r *Recorder) RecordFetchRetry(source, reason string) {
	r.fetchRetries.WithLabelValues(source, reason).Inc()
}

// RecordStaleServed records a degraded response built from expired data.
func (r *Recorder) RecordStaleServed(symbol string) {
	r.staleServed.WithLabelValues(symbol).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordUpstreamLatency records upstream request latency in seconds.
func (r *Recorder) RecordUpstreamLatency(source string, seconds float64) {
	r.upstreamLatency.WithLabelValues(source).Observe(seconds)
}
