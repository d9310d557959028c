package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache backend operations. A fresh entry is returned by Get;
// an expired entry is logically absent to Get but stays reachable through
// GetStale until it is overwritten or swept.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	GetStale(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Len(ctx context.Context) (int, error)
	Sweep(ctx context.Context) (int, error)
	Close() error
}
