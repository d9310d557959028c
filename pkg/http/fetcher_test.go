package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFetcher(opts ...FetcherOption) *Fetcher {
	base := []FetcherOption{
		WithFetchSource("test"),
		WithBackoffUnit(time.Millisecond),
		WithFetchTimeout(time.Second),
	}
	return NewFetcher(append(base, opts...)...)
}

func TestFetchJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "bitcoin" {
			t.Errorf("missing query param, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":50000}}`))
	}))
	defer srv.Close()

	f := newTestFetcher()
	var out map[string]map[string]float64
	if err := f.FetchJSON(context.Background(), srv.URL, map[string]string{"ids": "bitcoin"}, &out); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out["bitcoin"]["usd"] != 50000 {
		t.Fatalf("unexpected payload %v", out)
	}
}

func TestFetchJSONRetriesOn429ThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := newTestFetcher(WithMaxRetries(3))
	var out map[string]bool
	if err := f.FetchJSON(context.Background(), srv.URL, nil, &out); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestFetchJSONExhaustsBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newTestFetcher(WithMaxRetries(3))
	err := f.FetchJSON(context.Background(), srv.URL, nil, nil)
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("expected ErrMaxRetries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", got)
	}
}

func TestFetchJSONRetriesNon429Status(t *testing.T) {
	// 404 is retried the same as 5xx under the current policy.
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(WithMaxRetries(2))
	err := f.FetchJSON(context.Background(), srv.URL, nil, nil)
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("expected ErrMaxRetries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestFetchJSONTimeoutClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := newTestFetcher(WithMaxRetries(2), WithFetchTimeout(5*time.Millisecond))
	err := f.FetchJSON(context.Background(), srv.URL, nil, nil)
	if !errors.Is(err, ErrMaxRetries) || !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout after retries, got %v", err)
	}
}

func TestFetchJSONCancelAbortsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	// Long backoff unit so cancellation is what ends the call.
	f := newTestFetcher(WithMaxRetries(3), WithBackoffUnit(10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.FetchJSON(ctx, srv.URL, nil, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("fetch did not abort on cancellation")
	}
}

func TestFetchJSONPerCallTimeoutOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		_, _ = w.Write([]byte(`{"prices":[]}`))
	}))
	defer srv.Close()

	// Default timeout would fail; the per-call override allows the slow call.
	f := newTestFetcher(WithMaxRetries(1), WithFetchTimeout(5*time.Millisecond))
	var out map[string]interface{}
	err := f.FetchJSON(context.Background(), srv.URL, nil, &out, WithRequestTimeout(time.Second))
	if err != nil {
		t.Fatalf("fetch with override: %v", err)
	}
}
