package dag

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

var (
	// ErrInvalidComponentID is returned by [Graph.AddComponent] when the
	// component ID is empty.
	ErrInvalidComponentID = errors.New("component ID must not be empty")

	// ErrDuplicateComponent is returned by [Graph.AddComponent] when a
	// component with the same ID is already registered.
	ErrDuplicateComponent = errors.New("duplicate component")

	// ErrUnknownComponent is returned by [Graph.AddDependency] when either
	// endpoint has not been added to the graph.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidDuration is returned when a startup or stop duration is
	// negative.
	ErrInvalidDuration = errors.New("duration must not be negative")

	// ErrCyclicGraph is returned when an operation that requires an acyclic
	// graph finds a directed cycle.
	ErrCyclicGraph = errors.New("graph contains a cycle")

	// ErrUnresolvableCycle is returned by cycle repair when it removes more
	// edges than the graph started with. It indicates a broken invariant,
	// not bad input.
	ErrUnresolvableCycle = errors.New("cycle could not be resolved")
)

// DefaultDuration is the startup duration of a component added without
// [WithDuration].
const DefaultDuration = 1.0

// Metadata stores arbitrary key-value pairs attached to a component.
type Metadata map[string]any

// Component is a vertex of the dependency graph.
//
// Components are immutable once added: the graph hands out copies.
type Component struct {
	ID       string
	Duration float64 // startup duration
	// StopDuration is the time the component needs to shut down. It equals
	// Duration unless set with WithStopDuration.
	StopDuration float64
	Meta         Metadata
}

// Dependency is a directed edge: Requirement must finish before Component
// may start.
type Dependency struct {
	Requirement string `json:"requirement"`
	Component   string `json:"component"`
}

// String renders the edge as "requirement -> component".
func (d Dependency) String() string {
	return d.Requirement + " -> " + d.Component
}

// IsSelfLoop reports whether the edge starts and ends at the same component.
func (d Dependency) IsSelfLoop() bool { return d.Requirement == d.Component }

// Option configures a component passed to [Graph.AddComponent].
type Option func(*componentOptions)

type componentOptions struct {
	duration     float64
	stopDuration *float64
	meta         Metadata
}

// WithDuration sets the startup duration. If no stop duration is given,
// it is used for shutdown as well.
func WithDuration(d float64) Option {
	return func(o *componentOptions) { o.duration = d }
}

// WithStopDuration sets a shutdown duration that differs from the startup
// duration.
func WithStopDuration(d float64) Option {
	return func(o *componentOptions) { o.stopDuration = &d }
}

// WithMeta attaches metadata to the component.
func WithMeta(m Metadata) Option {
	return func(o *componentOptions) { o.meta = m }
}

// Graph stores components and the dependencies between them.
//
// Edges are kept as adjacency lists of component IDs, so no component
// references another directly. Every listing the graph returns follows
// insertion order, which makes all algorithms built on it deterministic.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	components map[string]*Component
	index      map[string]int // id -> insertion position
	ids        []string
	edges      []Dependency        // insertion order, may hold tombstones
	live       []bool              // parallel to edges
	edgeSet    map[Dependency]int  // edge -> position in edges
	outgoing   map[string][]string // requirement -> dependents
	incoming   map[string][]string // component -> requirements
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		components: make(map[string]*Component),
		index:      make(map[string]int),
		edgeSet:    make(map[Dependency]int),
		outgoing:   make(map[string][]string),
		incoming:   make(map[string][]string),
	}
}

// AddComponent registers a component. The duration defaults to
// [DefaultDuration] and the stop duration to the startup duration.
//
// Returns ErrInvalidComponentID for an empty id, ErrDuplicateComponent if the
// id is taken and ErrInvalidDuration for a negative, NaN or infinite
// duration.
func (g *Graph) AddComponent(id string, opts ...Option) error {
	if id == "" {
		return ErrInvalidComponentID
	}
	if _, exists := g.components[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, id)
	}

	o := componentOptions{duration: DefaultDuration}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Component{ID: id, Duration: o.duration, StopDuration: o.duration, Meta: o.meta}
	if o.stopDuration != nil {
		c.StopDuration = *o.stopDuration
	}
	if !validDuration(c.Duration) || !validDuration(c.StopDuration) {
		return fmt.Errorf("%w: component %q", ErrInvalidDuration, id)
	}
	if c.Meta == nil {
		c.Meta = Metadata{}
	}

	g.components[id] = c
	g.index[id] = len(g.ids)
	g.ids = append(g.ids, id)
	return nil
}

func validDuration(d float64) bool {
	return d >= 0 && !math.IsInf(d, 1)
}

// AddDependency records that requirement must complete before component
// starts. Adding an edge that already exists is a no-op. Self-loops are
// accepted and left for cycle repair to remove.
//
// Returns ErrUnknownComponent if either endpoint is missing.
func (g *Graph) AddDependency(requirement, component string) error {
	if _, ok := g.components[requirement]; !ok {
		return fmt.Errorf("%w: requirement %q", ErrUnknownComponent, requirement)
	}
	if _, ok := g.components[component]; !ok {
		return fmt.Errorf("%w: component %q", ErrUnknownComponent, component)
	}

	d := Dependency{Requirement: requirement, Component: component}
	if _, exists := g.edgeSet[d]; exists {
		return nil
	}
	g.edgeSet[d] = len(g.edges)
	g.edges = append(g.edges, d)
	g.live = append(g.live, true)
	g.outgoing[requirement] = append(g.outgoing[requirement], component)
	g.incoming[component] = append(g.incoming[component], requirement)
	return nil
}

// RemoveDependency deletes the edge requirement→component and reports
// whether it existed. It costs O(degree) amortized: the edge list keeps a
// tombstone that is compacted once half the slots are dead.
func (g *Graph) RemoveDependency(requirement, component string) bool {
	d := Dependency{Requirement: requirement, Component: component}
	pos, ok := g.edgeSet[d]
	if !ok {
		return false
	}
	delete(g.edgeSet, d)
	g.live[pos] = false
	if dead := len(g.edges) - len(g.edgeSet); dead > len(g.edges)/2 {
		g.compact()
	}
	g.outgoing[requirement] = slices.DeleteFunc(g.outgoing[requirement], func(s string) bool { return s == component })
	g.incoming[component] = slices.DeleteFunc(g.incoming[component], func(s string) bool { return s == requirement })
	return true
}

// compact drops tombstones from the edge list and renumbers positions.
func (g *Graph) compact() {
	n := 0
	for i, d := range g.edges {
		if !g.live[i] {
			continue
		}
		g.edges[n] = d
		g.live[n] = true
		g.edgeSet[d] = n
		n++
	}
	clear(g.edges[n:])
	g.edges = g.edges[:n]
	g.live = g.live[:n]
}

// HasDependency reports whether the edge requirement→component exists.
func (g *Graph) HasDependency(requirement, component string) bool {
	_, ok := g.edgeSet[Dependency{Requirement: requirement, Component: component}]
	return ok
}

// Component returns a copy of the component with the given id.
func (g *Graph) Component(id string) (Component, bool) {
	c, ok := g.components[id]
	if !ok {
		return Component{}, false
	}
	return *c, true
}

// Has reports whether a component with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.components[id]
	return ok
}

// Components returns copies of all components in insertion order.
func (g *Graph) Components() []Component {
	out := make([]Component, len(g.ids))
	for i, id := range g.ids {
		out[i] = *g.components[id]
	}
	return out
}

// IDs returns all component ids in insertion order.
func (g *Graph) IDs() []string { return slices.Clone(g.ids) }

// Index returns the insertion position of id, or -1 if it is unknown.
// It is the tie-break key for every ordering decision.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Dependencies returns a copy of all edges in insertion order.
func (g *Graph) Dependencies() []Dependency {
	out := make([]Dependency, 0, len(g.edgeSet))
	for i, d := range g.edges {
		if g.live[i] {
			out = append(out, d)
		}
	}
	return out
}

// ComponentCount returns the number of components.
func (g *Graph) ComponentCount() int { return len(g.ids) }

// DependencyCount returns the number of edges.
func (g *Graph) DependencyCount() int { return len(g.edgeSet) }

// Predecessors returns the direct requirements of id. The returned slice
// is a read-only view.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// Successors returns the components that directly require id. The returned
// slice is a read-only view.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// InDegree returns the number of requirements of id.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of dependents of id.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// Roots returns the ids of components without requirements, in insertion
// order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.ids {
		if len(g.incoming[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Sinks returns the ids of components nothing depends on, in insertion
// order.
func (g *Graph) Sinks() []string {
	var sinks []string
	for _, id := range g.ids {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// Durations returns the startup duration of every component.
func (g *Graph) Durations() map[string]float64 {
	m := make(map[string]float64, len(g.ids))
	for id, c := range g.components {
		m[id] = c.Duration
	}
	return m
}

// StopDurations returns the shutdown duration of every component.
func (g *Graph) StopDurations() map[string]float64 {
	m := make(map[string]float64, len(g.ids))
	for id, c := range g.components {
		m[id] = c.StopDuration
	}
	return m
}

// Clone returns a deep copy of the graph. Metadata maps are copied
// shallowly.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.ids {
		src := g.components[id]
		cp := *src
		cp.Meta = maps.Clone(src.Meta)
		c.components[id] = &cp
		c.index[id] = g.index[id]
	}
	c.ids = slices.Clone(g.ids)
	c.edges = g.Dependencies()
	c.live = make([]bool, len(c.edges))
	for i, d := range c.edges {
		c.live[i] = true
		c.edgeSet[d] = i
	}
	for id, out := range g.outgoing {
		c.outgoing[id] = slices.Clone(out)
	}
	for id, in := range g.incoming {
		c.incoming[id] = slices.Clone(in)
	}
	return c
}

// Validate returns ErrCyclicGraph if the graph has a directed cycle.
// It runs its own depth-first search and shares no state with cycle repair,
// so it can be used to check repair results.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, len(g.ids))
	for _, start := range g.ids {
		if color[start] != white {
			continue
		}
		color[start] = gray
		stack := []frame{{id: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.outgoing[top.id]
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				return fmt.Errorf("%w: edge %s -> %s closes a cycle", ErrCyclicGraph, top.id, child)
			}
		}
	}
	return nil
}
