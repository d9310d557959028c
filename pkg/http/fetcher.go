package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	"CoinPulse/pkg/ratelimit"
)

var (
	// ErrMaxRetries reports an exhausted retry budget.
	ErrMaxRetries = errors.New("max retries exceeded")
	// ErrTimeout reports a request that ran out of time on its final attempt.
	ErrTimeout = errors.New("timeout")
)

// FetchMetrics receives fetch instrumentation. Optional.
type FetchMetrics interface {
	RecordFetchAttempt(source string)
	RecordFetchRetry(source, reason string)
	RecordUpstreamLatency(source string, seconds float64)
}

// FetcherOption configures Fetcher.
type FetcherOption func(*Fetcher)

// Fetcher wraps Client with bounded retries, exponential backoff and jitter.
// Rate-limited (429) responses back off 2^attempt plus a uniform [0,1) jitter
// so concurrent callers desynchronize; timeouts and other failures back off
// 2^attempt with no jitter. All waits are cancellable through the context.
type Fetcher struct {
	client      *Client
	source      string
	maxRetries  int
	timeout     time.Duration
	backoffUnit time.Duration
	headers     map[string]string
	metrics     FetchMetrics
	limiter     *ratelimit.Limiter
	limitKey    string
	limitCap    float64
	limitRefill float64
	jitter      func() float64
}

// NewFetcher creates a resilient fetcher. The underlying client carries no
// transport-level timeout; each call is bounded by its own context deadline.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      NewClient(WithTimeout(0)),
		source:      "upstream",
		maxRetries:  3,
		timeout:     10 * time.Second,
		backoffUnit: time.Second,
		jitter:      rand.Float64,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchOption configures a single fetch call.
type FetchOption func(*fetchCall)

type fetchCall struct {
	timeout time.Duration
	headers map[string]string
}

// WithRequestTimeout overrides the per-attempt timeout for one call; used by
// the expensive long-range historical fetch.
func WithRequestTimeout(d time.Duration) FetchOption {
	return func(c *fetchCall) {
		c.timeout = d
	}
}

// WithRequestHeaders adds headers for one call.
func WithRequestHeaders(h map[string]string) FetchOption {
	return func(c *fetchCall) {
		c.headers = h
	}
}

// FetchJSON performs a GET with retries and decodes the JSON payload into
// dest. It returns once decoding succeeds, the retry budget is exhausted, or
// the context is cancelled.
func (f *Fetcher) FetchJSON(ctx context.Context, url string, params map[string]string, dest interface{}, opts ...FetchOption) error {
	call := &fetchCall{timeout: f.timeout}
	for _, opt := range opts {
		opt(call)
	}

	query := make(map[string][]string, len(params))
	for k, v := range params {
		query[k] = []string{v}
	}
	headers := make(map[string]string, len(f.headers)+len(call.headers))
	for k, v := range f.headers {
		headers[k] = v
	}
	for k, v := range call.headers {
		headers[k] = v
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, f.limitKey, f.limitCap, f.limitRefill); err != nil {
				return err
			}
		}

		if f.metrics != nil {
			f.metrics.RecordFetchAttempt(f.source)
		}

		err := f.attempt(ctx, url, query, headers, call.timeout, dest)
		if err == nil {
			return nil
		}
		lastErr = err

		// A cancelled parent context ends the sequence immediately.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt == f.maxRetries-1 {
			break
		}

		delay := time.Duration(1<<uint(attempt)) * f.backoffUnit
		reason := "transport"
		if errors.Is(err, errRateLimited) {
			// The only jittered path: rate-limit backoff must desynchronize
			// concurrent callers.
			delay += time.Duration(f.jitter() * float64(f.backoffUnit))
			reason = "rate_limited"
		} else if errors.Is(err, ErrTimeout) {
			reason = "timeout"
		}

		if f.metrics != nil {
			f.metrics.RecordFetchRetry(f.source, reason)
		}
		if err := f.wait(ctx, delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("%s: %w after %d attempts: %w", f.source, ErrMaxRetries, f.maxRetries, lastErr)
}

var errRateLimited = errors.New("rate limited")

// attempt runs a single request. Every failure is retryable under the
// current policy; only success and decode into dest end the loop early.
func (f *Fetcher) attempt(ctx context.Context, url string, query map[string][]string, headers map[string]string, timeout time.Duration, dest interface{}) error {
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := f.client.SendRequest(attemptCtx, &RequestOptions{
		Method:      MethodGet,
		URL:         url,
		QueryParams: query,
		Headers:     headers,
	})
	if f.metrics != nil {
		f.metrics.RecordUpstreamLatency(f.source, time.Since(start).Seconds())
	}
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", errRateLimited, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// Retried like a transport failure; see the retry policy note in
		// the fetcher docs.
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// wait blocks for d or until the context is done, whichever comes first.
func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// WithFetchSource names the upstream for logs and metrics labels.
func WithFetchSource(source string) FetcherOption {
	return func(f *Fetcher) {
		f.source = source
	}
}

// WithMaxRetries sets the retry budget.
func WithMaxRetries(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxRetries = n
		}
	}
}

// WithFetchTimeout sets the default per-attempt timeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBackoffUnit scales the backoff base; tests shrink it.
func WithBackoffUnit(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.backoffUnit = d
	}
}

// WithFetchHeaders sets headers applied to every call.
func WithFetchHeaders(h map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = h
	}
}

// WithFetchMetrics attaches a metrics recorder.
func WithFetchMetrics(m FetchMetrics) FetcherOption {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// WithLimiter gates requests behind a token bucket, shielding the upstream
// from bursts before the 429 path ever triggers.
func WithLimiter(l *ratelimit.Limiter, key string, capacity, refillPerSec float64) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = l
		f.limitKey = key
		f.limitCap = capacity
		f.limitRefill = refillPerSec
	}
}
