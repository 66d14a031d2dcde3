package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coocood/freecache"
)

var errNotFound = errors.New("not found")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	sk1 := k.ScheduleKey("abc", ScheduleKeyOpts{Strict: false})
	sk2 := k.ScheduleKey("abc", ScheduleKeyOpts{Strict: true})
	if sk1 == sk2 {
		t.Error("Different ScheduleKeyOpts should produce different keys")
	}
	if sk1 != k.ScheduleKey("abc", ScheduleKeyOpts{}) {
		t.Error("ScheduleKey should be deterministic")
	}
	if !strings.HasPrefix(sk1, "schedule:") {
		t.Errorf("ScheduleKey unexpected prefix: %s", sk1)
	}

	rk1 := k.RenderKey("abc", RenderKeyOpts{Format: "svg"})
	rk2 := k.RenderKey("abc", RenderKeyOpts{Format: "dot"})
	if rk1 == rk2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
	if rk1 == sk1 {
		t.Error("Render and schedule keys should not collide")
	}
}

func TestNewKeyer(t *testing.T) {
	plain := NewKeyer("")
	if _, ok := plain.(DefaultKeyer); !ok {
		t.Errorf("NewKeyer(\"\") = %T, want DefaultKeyer", plain)
	}

	scoped := NewKeyer("staging:")
	want := "staging:" + plain.ScheduleKey("abc", ScheduleKeyOpts{})
	if got := scoped.ScheduleKey("abc", ScheduleKeyOpts{}); got != want {
		t.Errorf("ScheduleKey = %q, want %q", got, want)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	key := scoped.ScheduleKey("abc", ScheduleKeyOpts{})
	if key != "staging:"+inner.ScheduleKey("abc", ScheduleKeyOpts{}) {
		t.Errorf("ScopedKeyer ScheduleKey unexpected: %s", key)
	}

	rk := scoped.RenderKey("abc", RenderKeyOpts{Format: "svg"})
	if !strings.HasPrefix(rk, "staging:render:") {
		t.Errorf("ScopedKeyer RenderKey should be prefixed: %s", rk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ScheduleKey("abc", ScheduleKeyOpts{})
	if key != "prefix:"+NewDefaultKeyer().ScheduleKey("abc", ScheduleKeyOpts{}) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "plan", []byte(`{"order":["db"]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "plan")
	if err != nil || !hit {
		t.Fatalf("Get(plan) = hit %v, err %v", hit, err)
	}
	if string(data) != `{"order":["db"]}` {
		t.Errorf("Get(plan) = %s", data)
	}

	if err := c.Delete(ctx, "plan"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "plan"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "plan"); err != nil {
		t.Errorf("Delete of missing entry: %v", err)
	}
}

func TestFileCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "old", []byte("x"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "old"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry should be gone after Clear")
	}
}

type fakeTimer struct{ now uint32 }

func (f *fakeTimer) Now() uint32 { return f.now }

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	clock := &fakeTimer{now: 1000}
	c := newMemoryCacheWithTimer(1<<20, clock)
	defer c.Close()

	buf := []byte("value")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'X'

	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Set should copy data, got %s", data)
	}

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	clock.now += 120
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry without ttl should not expire")
	}

	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestMemoryCacheBounded(t *testing.T) {
	ctx := context.Background()
	clock := &fakeTimer{now: 1000}
	c := newMemoryCacheWithTimer(1<<20, clock)

	value := []byte(strings.Repeat("v", 256))
	const n = 10000
	for i := range n {
		if err := c.Set(ctx, fmt.Sprintf("k%05d", i), value, time.Second); err != nil {
			t.Fatalf("Set(%d) error: %v", i, err)
		}
	}
	clock.now += 3600
	if err := c.Set(ctx, "fresh", value, time.Hour); err != nil {
		t.Fatal(err)
	}

	// 10,000 entries of ~256 bytes do not fit in 1 MiB.
	if got := c.Len(); got >= n {
		t.Errorf("Len() = %d, want fewer than %d", got, n)
	}
	if _, hit, _ := c.Get(ctx, fmt.Sprintf("k%05d", n-1)); hit {
		t.Error("expired entry should be a miss")
	}
	if _, hit, _ := c.Get(ctx, "fresh"); !hit {
		t.Error("newest entry should be kept")
	}
}

func TestMemoryCacheLargeEntry(t *testing.T) {
	c := NewMemoryCache(1 << 20)
	err := c.Set(context.Background(), "big", make([]byte, 64<<10), time.Hour)
	if !errors.Is(err, freecache.ErrLargeEntry) {
		t.Errorf("Set(64KiB) error = %v, want ErrLargeEntry", err)
	}
}

func TestTTLSeconds(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Millisecond, 1},
		{1500 * time.Millisecond, 2},
		{DefaultTTL, 7 * 24 * 3600},
	}
	for _, tt := range tests {
		if got := ttlSeconds(tt.ttl); got != tt.want {
			t.Errorf("ttlSeconds(%v) = %d, want %d", tt.ttl, got, tt.want)
		}
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("BOOTORDER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("BOOTORDER_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "bootorder-test:" + t.Name()
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("plan"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "plan" {
		t.Errorf("Get = %q, hit %v, err %v", data, hit, err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); !errors.Is(err, ErrBackend) {
		t.Errorf("NewRedisCache(unreachable) error = %v, want ErrBackend", err)
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errNotFound
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry() = %v after %d calls, want success after 2", err, calls)
	}

	calls = 0
	err = retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return errNotFound
	})
	if err != errNotFound || calls != 3 {
		t.Errorf("retry() = %v after %d calls, want errNotFound after 3", err, calls)
	}

	calls = 0
	err = retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return context.DeadlineExceeded
	})
	if err != context.DeadlineExceeded || calls != 1 {
		t.Errorf("retry() = %v after %d calls, want DeadlineExceeded without retry", err, calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, 3, time.Hour, func() error { return errNotFound })
	if err != context.Canceled {
		t.Errorf("retry() = %v, want context.Canceled", err)
	}
}
