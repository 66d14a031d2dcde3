package cache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/coocood/freecache"
)

// DefaultMemorySize is the byte budget of a MemoryCache created with a
// non-positive size.
const DefaultMemorySize = 64 << 20

// MemoryCache keeps entries in a fixed-size freecache ring. Once the budget
// is used up the oldest entries are evicted, and expired entries are
// reclaimed as new ones are written.
//
// Entries larger than about 1/1024 of the budget are rejected by freecache
// with [freecache.ErrLargeEntry].
type MemoryCache struct {
	cache *freecache.Cache
}

// NewMemoryCache creates an in-memory cache holding at most size bytes.
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryCache{cache: freecache.NewCache(size)}
}

func newMemoryCacheWithTimer(size int, timer freecache.Timer) *MemoryCache {
	return &MemoryCache{cache: freecache.NewCacheCustomTimer(size, timer)}
}

// Get retrieves a value, treating expired entries as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("memory cache get: %w", err)
	}
	return data, true, nil
}

// Set stores a copy of data. A non-positive ttl never expires; other values
// are rounded up to whole seconds.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.cache.Set([]byte(key), data, ttlSeconds(ttl)); err != nil {
		return fmt.Errorf("memory cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Del([]byte(key))
	return nil
}

// Len returns the number of stored entries. Expired entries count until
// they are reclaimed.
func (c *MemoryCache) Len() int {
	return int(c.cache.EntryCount())
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.cache.Clear()
	return nil
}

func ttlSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	secs := math.Ceil(ttl.Seconds())
	if secs > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(secs)
}

var _ Cache = (*MemoryCache)(nil)
