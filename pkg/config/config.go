// Package config loads bootorder settings from a TOML file.
//
// The file is optional. Its default location follows the XDG convention:
//
//	$XDG_CONFIG_HOME/bootorder/config.toml   (or ~/.config/bootorder/config.toml)
//
// Example:
//
//	[cache]
//	dir = "/var/cache/bootorder"
//	ttl = "24h"
//	prefix = "staging:"
//	memory_mb = 64
//	redis_addr = "localhost:6379"
//	redis_password = ""
//	redis_db = 0
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "bootorder"
//
//	[schedule]
//	strict = false
//	unit = "s"
//
// Command-line flags take precedence over file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the config and cache directories.
const AppName = "bootorder"

// Config is the full set of file settings.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Schedule ScheduleConfig `toml:"schedule"`
}

// CacheConfig selects and tunes the plan cache.
type CacheConfig struct {
	Dir string   `toml:"dir"`
	TTL Duration `toml:"ttl"`

	// Prefix scopes every cache key, so deployments can share one Redis.
	Prefix string `toml:"prefix"`

	// MemoryMB sizes the server's in-memory cache when Redis is not used.
	MemoryMB int `toml:"memory_mb"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ScheduleConfig holds defaults for plan computation and display.
type ScheduleConfig struct {
	Strict bool   `toml:"strict"`
	Unit   string `toml:"unit"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			TTL:      Duration{7 * 24 * time.Hour},
			MemoryMB: 64,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: AppName,
		},
		Schedule: ScheduleConfig{
			Unit: "s",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default cache directory (~/.cache/bootorder/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config file at path on top of [Default]. An empty path
// means [Path]. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Cache.MemoryMB <= 0 {
		return fmt.Errorf("cache.memory_mb must be positive, got %d", c.Cache.MemoryMB)
	}
	if c.Cache.RedisDB < 0 {
		return fmt.Errorf("cache.redis_db must not be negative, got %d", c.Cache.RedisDB)
	}
	return nil
}

// ResolveCacheDir returns the configured cache directory or the default.
func (c *Config) ResolveCacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return CacheDir()
}
