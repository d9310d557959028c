package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Service using Redis. Expired keys vanish natively, so
// each Set also writes a longer-lived stale shadow key for the fallback read
// path.
type RedisCache struct {
	client   *redis.Client
	prefix   string
	staleTTL time.Duration
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(opts ...RedisOption) (*RedisCache, error) {
	cfg := &RedisConfig{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 5,
		Prefix:       "coinpulse",
		StaleTTL:     24 * time.Hour,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{
		client:   client,
		prefix:   cfg.Prefix,
		staleTTL: cfg.StaleTTL,
	}, nil
}

// NewRedisCacheFromClient wraps an existing client; used by tests.
func NewRedisCacheFromClient(client *redis.Client, prefix string, staleTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, staleTTL: staleTTL}
}

// Client returns underlying redis client.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = DefaultTTL
	}

	if err := c.client.Set(ctx, c.wrapKey(key), data, expiration).Err(); err != nil {
		return err
	}
	return c.client.Set(ctx, c.staleKey(key), data, c.staleTTL).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.wrapKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return decodeValue(data, dest)
}

func (c *RedisCache) GetStale(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.wrapKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return err
		}
		data, err = c.client.Get(ctx, c.staleKey(key)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrCacheMiss
			}
			return err
		}
	}
	return decodeValue(data, dest)
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	wrapped := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		wrapped = append(wrapped, c.wrapKey(key), c.staleKey(key))
	}
	return c.client.Unlink(ctx, wrapped...).Err()
}

func (c *RedisCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	wrapped := make([]string, 0, len(keys))
	for _, key := range keys {
		wrapped = append(wrapped, c.wrapKey(key))
	}
	result, err := c.client.Exists(ctx, wrapped...).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// Len counts live entries under the prefix, excluding stale shadows.
func (c *RedisCache) Len(ctx context.Context) (int, error) {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+":*", 100).Result()
		if err != nil {
			return 0, err
		}
		n += len(keys)
		cursor = next
		if cursor == 0 {
			return n, nil
		}
	}
}

// Sweep is a no-op: Redis expires keys natively.
func (c *RedisCache) Sweep(_ context.Context) (int, error) {
	return 0, nil
}

func (c *RedisCache) wrapKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisCache) staleKey(key string) string {
	return fmt.Sprintf("%s-stale:%s", c.prefix, key)
}
