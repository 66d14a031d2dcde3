// Package pipeline turns a manifest into a boot plan.
//
// This package implements the complete build → resolve → schedule flow that
// is shared by the CLI and the HTTP API, so both entry points behave the
// same and share one cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: create the dependency graph from a manifest
//  2. Resolve: repair cycles (or reject them in strict mode) and sort
//  3. Schedule: compute startup and shutdown times and verify them
//
// An optional fourth stage renders the plan as DOT or SVG.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, manifest, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Order)
//
//	svg, err := runner.Render(ctx, result, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/errors"
	bio "github.com/matzehuels/bootorder/pkg/io"
	"github.com/matzehuels/bootorder/pkg/schedule"
)

// Format constants for rendered output.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that format is a supported render format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (want dot, svg or json)", format)
	}
	return nil
}

// Options controls plan computation.
type Options struct {
	// Strict rejects cyclic manifests instead of repairing them.
	Strict bool

	// Refresh bypasses cached plans and recomputes.
	Refresh bool
}

// RenderOptions controls diagram rendering.
type RenderOptions struct {
	Format   string
	Detailed bool
	Unit     string
}

// Result is a computed boot plan.
type Result struct {
	ID           uuid.UUID          `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	ManifestHash string             `json:"manifest_hash"`
	Strict       bool               `json:"strict"`
	Manifest     *bio.Manifest      `json:"manifest"`
	Order        []string           `json:"order"`
	Removed      []dag.Dependency   `json:"removed"`
	Dependencies []dag.Dependency   `json:"dependencies"`
	Layers       map[string]int     `json:"layers"`
	Schedule     *schedule.Schedule `json:"schedule"`
	Stats        Stats              `json:"stats"`
	CacheHit     bool               `json:"cache_hit"`
}

// Stats summarizes a plan.
type Stats struct {
	Components       int           `json:"components"`
	Dependencies     int           `json:"dependencies"`
	Removed          int           `json:"removed"`
	Waves            int           `json:"waves"`
	StartupMakespan  float64       `json:"startup_makespan"`
	ShutdownMakespan float64       `json:"shutdown_makespan"`
	ResolveTime      time.Duration `json:"resolve_time"`
	ScheduleTime     time.Duration `json:"schedule_time"`
}

// Graph rebuilds the repaired graph: the manifest without the removed
// dependencies.
func (r *Result) Graph() (*dag.Graph, error) {
	if r.Manifest == nil {
		return nil, errors.New(errors.ErrCodeInternal, "result %s has no manifest", r.ID)
	}
	g, err := r.Manifest.Build()
	if err != nil {
		return nil, errors.FromGraphError(fmt.Errorf("rebuild: %w", err))
	}
	for _, e := range r.Removed {
		g.RemoveDependency(e.Requirement, e.Component)
	}
	return g, nil
}

// Summary is the listing view of a result.
type Summary struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Components int       `json:"components"`
	Removed    int       `json:"removed"`
	Makespan   float64   `json:"startup_makespan"`
}

// Summarize returns the listing view of r.
func (r *Result) Summarize() Summary {
	return Summary{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		Components: r.Stats.Components,
		Removed:    r.Stats.Removed,
		Makespan:   r.Stats.StartupMakespan,
	}
}
