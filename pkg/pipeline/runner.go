package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bootorder/pkg/cache"
	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/dag/transform"
	"github.com/matzehuels/bootorder/pkg/errors"
	bio "github.com/matzehuels/bootorder/pkg/io"
	"github.com/matzehuels/bootorder/pkg/observability"
	"github.com/matzehuels/bootorder/pkg/schedule"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different manifests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// HashManifest returns the content hash used in cache keys.
func HashManifest(m *bio.Manifest) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("hash manifest: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute runs the build → resolve → schedule pipeline with caching.
// Errors carry codes from pkg/errors.
func (r *Runner) Execute(ctx context.Context, m *bio.Manifest, opts Options) (*Result, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "no manifest")
	}
	hash, err := HashManifest(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "invalid manifest")
	}
	key := r.Keyer.ScheduleKey(hash, cache.ScheduleKeyOpts{Strict: opts.Strict})

	if !opts.Refresh {
		if res, ok := r.cached(ctx, key); ok {
			res.ID = uuid.New()
			res.CreatedAt = time.Now().UTC()
			res.CacheHit = true
			r.Logger.Debug("using cached plan", "manifest", hash[:12])
			r.warnRemoved(res.Removed)
			return res, nil
		}
	}

	g, err := m.Build()
	if err != nil {
		return nil, errors.FromGraphError(fmt.Errorf("build: %w", err))
	}
	r.Logger.Info("built graph",
		"components", g.ComponentCount(),
		"dependencies", g.DependencyCount())

	res, err := r.Plan(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	res.ManifestHash = hash
	res.Manifest = m

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Warn("failed to cache plan", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "schedule", len(data))
		}
	}
	return res, nil
}

// warnRemoved logs each dependency dropped by cycle repair.
func (r *Runner) warnRemoved(removed []dag.Dependency) {
	for _, e := range removed {
		r.Logger.Warn("removed dependency to break cycle",
			"requirement", e.Requirement,
			"component", e.Component)
	}
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "schedule")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil || res.Schedule == nil {
		// Stale or corrupt entry: recompute.
		observability.Cache().OnCacheMiss(ctx, "schedule")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "schedule")
	return &res, true
}

// Plan resolves and schedules g, repairing it in place. The returned result
// has no manifest or hash; [Runner.Execute] fills those in.
func (r *Runner) Plan(ctx context.Context, g *dag.Graph, opts Options) (*Result, error) {
	res := &Result{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Strict:    opts.Strict,
	}

	resolveStart := time.Now()
	observability.Pipeline().OnResolveStart(ctx, g.ComponentCount(), g.DependencyCount())
	removed, order, err := r.resolve(g, opts)
	res.Stats.ResolveTime = time.Since(resolveStart)
	observability.Pipeline().OnResolveComplete(ctx, len(removed), res.Stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}
	layers, err := transform.Layers(g)
	if err != nil {
		return nil, errors.FromGraphError(err)
	}

	scheduleStart := time.Now()
	observability.Pipeline().OnScheduleStart(ctx, g.ComponentCount())
	s, err := schedule.Compute(g, order)
	if err == nil {
		err = schedule.Verify(g, s)
	}
	res.Stats.ScheduleTime = time.Since(scheduleStart)
	var makespan float64
	if s != nil {
		makespan = s.StartupMakespan()
	}
	observability.Pipeline().OnScheduleComplete(ctx, makespan, res.Stats.ScheduleTime, err)
	if err != nil {
		return nil, errors.FromGraphError(fmt.Errorf("schedule: %w", err))
	}

	res.Order = order
	res.Removed = removed
	res.Dependencies = g.Dependencies()
	res.Layers = layers
	res.Schedule = s
	res.Stats.Components = g.ComponentCount()
	res.Stats.Dependencies = g.DependencyCount()
	res.Stats.Removed = len(removed)
	res.Stats.Waves = transform.WaveCount(layers)
	res.Stats.StartupMakespan = s.StartupMakespan()
	res.Stats.ShutdownMakespan = s.ShutdownMakespan()

	r.Logger.Info("computed plan",
		"components", res.Stats.Components,
		"removed", res.Stats.Removed,
		"waves", res.Stats.Waves,
		"makespan", res.Stats.StartupMakespan,
		"duration", res.Stats.ResolveTime+res.Stats.ScheduleTime)
	return res, nil
}

func (r *Runner) resolve(g *dag.Graph, opts Options) ([]dag.Dependency, []string, error) {
	removed := []dag.Dependency{}
	if opts.Strict {
		if cycle := transform.FindCycle(g); cycle != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeCyclicGraph, dag.ErrCyclicGraph,
				"cycle %s", strings.Join(cycle, " -> "))
		}
	} else {
		var err error
		removed, err = transform.BreakCycles(g)
		if err != nil {
			return nil, nil, errors.FromGraphError(err)
		}
		r.warnRemoved(removed)
		if removed == nil {
			removed = []dag.Dependency{}
		}
	}

	order, err := transform.TopoSort(g)
	if err != nil {
		return nil, nil, errors.FromGraphError(err)
	}
	return removed, order, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
