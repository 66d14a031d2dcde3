// Package schedule derives startup and shutdown times from a topological
// order.
//
// # Startup
//
// A component may begin starting once every requirement has finished:
//
//	start[c] = max(0, max over requirements r of start[r] + duration[r])
//
// [Startup] walks the order front to back, so every requirement is final by
// the time its dependents are visited.
//
// # Shutdown
//
// Shutdown mirrors startup on the reversed graph. A component may begin
// shutting down once everything that depends on it has stopped:
//
//	stop[c] = max(0, max over dependents d of stop[d] + stopDuration[d])
//
// [Shutdown] walks the order back to front.
//
// Both functions validate their input before computing anything: a negative
// duration yields [dag.ErrInvalidDuration], an order that is not a valid
// topological order of the graph yields [ErrOrderMismatch].
package schedule

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/bootorder/pkg/dag"
)

// ErrOrderMismatch is returned when the order handed to [Startup] or
// [Shutdown] is not a topological order of the graph's components.
var ErrOrderMismatch = errors.New("order does not match graph")

// Times maps component ids to the moment their startup (or shutdown)
// begins, relative to the moment the whole operation begins.
type Times map[string]float64

// Startup computes the earliest start time of every component.
func Startup(g *dag.Graph, order []string, durations map[string]float64) (Times, error) {
	if err := checkDurations(g, durations); err != nil {
		return nil, err
	}
	if err := checkOrder(g, order); err != nil {
		return nil, err
	}

	times := make(Times, len(order))
	for _, id := range order {
		t := 0.0
		for _, r := range g.Predecessors(id) {
			t = math.Max(t, times[r]+durations[r])
		}
		times[id] = t
	}
	return times, nil
}

// Shutdown computes the earliest time each component may begin shutting
// down, given that its dependents must have stopped first.
func Shutdown(g *dag.Graph, order []string, durations map[string]float64) (Times, error) {
	if err := checkDurations(g, durations); err != nil {
		return nil, err
	}
	if err := checkOrder(g, order); err != nil {
		return nil, err
	}

	times := make(Times, len(order))
	for _, id := range slices.Backward(order) {
		t := 0.0
		for _, d := range g.Successors(id) {
			t = math.Max(t, times[d]+durations[d])
		}
		times[id] = t
	}
	return times, nil
}

func checkDurations(g *dag.Graph, durations map[string]float64) error {
	for _, id := range g.IDs() {
		d, ok := durations[id]
		if !ok {
			return fmt.Errorf("%w: no duration for component %q", dag.ErrInvalidDuration, id)
		}
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: component %q has duration %v", dag.ErrInvalidDuration, id, d)
		}
	}
	return nil
}

func checkOrder(g *dag.Graph, order []string) error {
	if len(order) != g.ComponentCount() {
		return fmt.Errorf("%w: order has %d components, graph has %d", ErrOrderMismatch, len(order), g.ComponentCount())
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		if !g.Has(id) {
			return fmt.Errorf("%w: %w: %q", ErrOrderMismatch, dag.ErrUnknownComponent, id)
		}
		if _, dup := pos[id]; dup {
			return fmt.Errorf("%w: %q listed twice", ErrOrderMismatch, id)
		}
		pos[id] = i
	}
	for _, e := range g.Dependencies() {
		if pos[e.Requirement] >= pos[e.Component] {
			return fmt.Errorf("%w: %s is ordered before its requirement", ErrOrderMismatch, e.Component)
		}
	}
	return nil
}
