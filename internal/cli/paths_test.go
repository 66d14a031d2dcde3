package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bootorder/pkg/cache"
	"github.com/matzehuels/bootorder/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	c := &CLI{Config: config.Default()}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := filepath.Join(t.TempDir(), "custom-cache")
	t.Setenv("XDG_CACHE_HOME", customCache)

	c := &CLI{Config: config.Default()}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := &CLI{Config: config.Default()}
	c.Config.Cache.Dir = "/srv/bootorder-cache"
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/srv/bootorder-cache" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestNewRunnerScopesKeys(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Prefix = "staging:"

	r, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	if key := r.Keyer.ScheduleKey("abc", cache.ScheduleKeyOpts{}); !strings.HasPrefix(key, "staging:schedule:") {
		t.Errorf("ScheduleKey() = %q, want staging: prefix", key)
	}

	c.Config.Cache.Prefix = ""
	r, _ = c.newRunner(context.Background(), true)
	if key := r.Keyer.ScheduleKey("abc", cache.ScheduleKeyOpts{}); !strings.HasPrefix(key, "schedule:") {
		t.Errorf("ScheduleKey() = %q, want unscoped key", key)
	}
}

func TestServerCacheIsBounded(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Cache.MemoryMB = 1

	ch, err := c.serverCache(context.Background())
	if err != nil {
		t.Fatalf("serverCache() error: %v", err)
	}
	defer ch.Close()
	if _, ok := ch.(*cache.MemoryCache); !ok {
		t.Fatalf("serverCache() = %T, want *cache.MemoryCache", ch)
	}
	// 64 KiB exceeds the per-entry limit of a 1 MiB cache.
	if err := ch.Set(context.Background(), "k", make([]byte, 64<<10), 0); err == nil {
		t.Error("Set() of an oversized entry should fail on a 1 MiB cache")
	}
}
