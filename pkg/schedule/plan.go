package schedule

import (
	"fmt"

	"github.com/matzehuels/bootorder/pkg/dag"
)

// Schedule holds both time maps for one ordered graph together with the
// durations they were computed from.
type Schedule struct {
	Order         []string           `json:"order"`
	Startup       Times              `json:"startup"`
	Shutdown      Times              `json:"shutdown"`
	Durations     map[string]float64 `json:"durations"`
	StopDurations map[string]float64 `json:"stop_durations"`
}

// Entry is one component's row in a schedule.
type Entry struct {
	ID            string  `json:"id"`
	StartupBegin  float64 `json:"startup_begin"`
	StartupEnd    float64 `json:"startup_end"`
	ShutdownBegin float64 `json:"shutdown_begin"`
	ShutdownEnd   float64 `json:"shutdown_end"`
}

// Compute builds a Schedule for g using the durations stored on its
// components. order must be a topological order of g, typically from
// transform.TopoSort.
func Compute(g *dag.Graph, order []string) (*Schedule, error) {
	durations := g.Durations()
	stops := g.StopDurations()

	startup, err := Startup(g, order, durations)
	if err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}
	shutdown, err := Shutdown(g, order, stops)
	if err != nil {
		return nil, fmt.Errorf("shutdown: %w", err)
	}
	return &Schedule{
		Order:         order,
		Startup:       startup,
		Shutdown:      shutdown,
		Durations:     durations,
		StopDurations: stops,
	}, nil
}

// StartupFinish returns when id has finished starting.
func (s *Schedule) StartupFinish(id string) float64 {
	return s.Startup[id] + s.Durations[id]
}

// ShutdownFinish returns when id has finished shutting down.
func (s *Schedule) ShutdownFinish(id string) float64 {
	return s.Shutdown[id] + s.StopDurations[id]
}

// StartupMakespan returns the time at which the last component is up.
func (s *Schedule) StartupMakespan() float64 {
	var span float64
	for _, id := range s.Order {
		span = max(span, s.StartupFinish(id))
	}
	return span
}

// ShutdownMakespan returns the time at which the last component is down.
func (s *Schedule) ShutdownMakespan() float64 {
	var span float64
	for _, id := range s.Order {
		span = max(span, s.ShutdownFinish(id))
	}
	return span
}

// Entries lists every component in startup order.
func (s *Schedule) Entries() []Entry {
	out := make([]Entry, len(s.Order))
	for i, id := range s.Order {
		out[i] = Entry{
			ID:            id,
			StartupBegin:  s.Startup[id],
			StartupEnd:    s.StartupFinish(id),
			ShutdownBegin: s.Shutdown[id],
			ShutdownEnd:   s.ShutdownFinish(id),
		}
	}
	return out
}

// Verify checks that s honors every remaining edge of g in both directions:
// a dependent starts no earlier than its requirement finishes starting, and
// a requirement begins shutting down no earlier than its dependent finishes.
func Verify(g *dag.Graph, s *Schedule) error {
	for _, e := range g.Dependencies() {
		r, c := e.Requirement, e.Component
		if s.Startup[c] < s.StartupFinish(r) {
			return fmt.Errorf("startup of %s at %v precedes %s finishing at %v", c, s.Startup[c], r, s.StartupFinish(r))
		}
		if s.Shutdown[r] < s.ShutdownFinish(c) {
			return fmt.Errorf("shutdown of %s at %v precedes %s finishing at %v", r, s.Shutdown[r], c, s.ShutdownFinish(c))
		}
	}
	for _, id := range g.IDs() {
		if s.Startup[id] < 0 || s.Shutdown[id] < 0 {
			return fmt.Errorf("negative time for %s", id)
		}
	}
	return nil
}
