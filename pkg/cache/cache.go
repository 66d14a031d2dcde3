// Package cache provides byte-level caching for computed boot plans.
//
// A [Cache] stores opaque byte slices under string keys with an optional
// time-to-live. Implementations:
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [MemoryCache]: bounded process-local freecache, used by the HTTP server
//   - [RedisCache]: shared cache for multi-instance server deployments
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are derived by a [Keyer] from a manifest hash plus the options that
// influence the result, so changing either yields a fresh entry.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache is the storage interface shared by all backends.
//
// Get reports a miss with ok == false and a nil error. Errors are reserved
// for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long computed plans stay cached when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// ErrBackend is returned when a remote cache cannot be reached.
var ErrBackend = errors.New("cache backend unavailable")

// NullCache stores nothing. The CLI uses it for --no-cache and when the
// cache directory cannot be created.
type NullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
