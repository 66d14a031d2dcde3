// Package cli implements the bootorder command-line interface.
//
// # Commands
//
//   - schedule: compute startup order and times for a manifest
//   - render: write the plan as a DOT, SVG or JSON file
//   - serve: run the HTTP API
//   - cache: inspect and clear the local plan cache
//
// Settings are read from ~/.config/bootorder/config.toml (or --config) and
// can be overridden per command with flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every pipeline stage and cache lookup.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bootorder/pkg/cache"
	"github.com/matzehuels/bootorder/pkg/config"
	"github.com/matzehuels/bootorder/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and built-in
// settings. The config file is loaded before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewKeyer(c.Config.Cache.Prefix), c.Logger)
	if ttl := c.Config.Cache.TTL.Duration; ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newCache picks Redis when configured, otherwise the file cache. A cache
// directory that cannot be resolved disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.RedisAddr != "" {
		return cache.NewRedisCache(ctx, c.redisConfig())
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) redisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Config.Cache.RedisAddr,
		Password: c.Config.Cache.RedisPassword,
		DB:       c.Config.Cache.RedisDB,
	}
}

// cacheDir returns the configured cache directory, falling back to the XDG
// default (~/.cache/bootorder/).
func (c *CLI) cacheDir() (string, error) {
	return c.Config.ResolveCacheDir()
}

// unitOrDefault returns flag if set, else the configured unit.
func (c *CLI) unitOrDefault(flag string) string {
	if flag != "" {
		return flag
	}
	return c.Config.Schedule.Unit
}
