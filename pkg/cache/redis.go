package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig selects the Redis server backing a [RedisCache].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// Attempts bounds how often a failed command is sent. Zero means 3.
	Attempts int
	// Backoff is the first wait between attempts; it doubles each time.
	// Zero means 200ms.
	Backoff time.Duration
}

// RedisCache stores entries in Redis, which enforces TTLs itself. Failed
// commands are retried with exponential backoff unless the context ended.
type RedisCache struct {
	client   *redis.Client
	attempts int
	backoff  time.Duration
}

// NewRedisCache connects to the configured server and pings it. An
// unreachable server yields an error wrapping [ErrBackend].
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrBackend, cfg.Addr, err)
	}
	c := &RedisCache{client: client, attempts: cfg.Attempts, backoff: cfg.Backoff}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.backoff <= 0 {
		c.backoff = 200 * time.Millisecond
	}
	return c, nil
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := retry(ctx, c.attempts, c.backoff, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		data = b
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrBackend, key, err)
	}
	return data, data != nil, nil
}

// Set stores a value. A zero ttl keeps the entry until deleted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := retry(ctx, c.attempts, c.backoff, func() error {
		return c.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrBackend, key, err)
	}
	return nil
}

// Delete removes a value. It is not retried.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrBackend, key, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// retry calls fn until it succeeds, attempts run out, or ctx ends.
// Context errors returned by fn are final.
func retry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff << i):
		}
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
