package io

import (
	"fmt"

	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/errors"
)

// Manifest is the declarative input of a plan.
type Manifest struct {
	Components   []ComponentDecl  `json:"components" toml:"components" yaml:"components"`
	Dependencies []DependencyDecl `json:"dependencies" toml:"dependencies" yaml:"dependencies"`
}

// ComponentDecl declares one component. Nil durations take the graph
// defaults.
type ComponentDecl struct {
	ID           string       `json:"id" toml:"id" yaml:"id"`
	Duration     *float64     `json:"duration,omitempty" toml:"duration,omitempty" yaml:"duration,omitempty"`
	StopDuration *float64     `json:"stop_duration,omitempty" toml:"stop_duration,omitempty" yaml:"stop_duration,omitempty"`
	Meta         dag.Metadata `json:"meta,omitempty" toml:"meta,omitempty" yaml:"meta,omitempty"`
}

// DependencyDecl declares that Requirement must be up before Component starts.
type DependencyDecl struct {
	Requirement string `json:"requirement" toml:"requirement" yaml:"requirement"`
	Component   string `json:"component" toml:"component" yaml:"component"`
}

// Build creates a graph from the manifest. Components are added in
// declaration order, which fixes every tie-break downstream.
func (m *Manifest) Build() (*dag.Graph, error) {
	g := dag.New()
	for i, c := range m.Components {
		if err := errors.ValidateComponentID(c.ID); err != nil {
			return nil, fmt.Errorf("component #%d: %w", i+1, err)
		}
		var opts []dag.Option
		if c.Duration != nil {
			opts = append(opts, dag.WithDuration(*c.Duration))
		}
		if c.StopDuration != nil {
			opts = append(opts, dag.WithStopDuration(*c.StopDuration))
		}
		if c.Meta != nil {
			opts = append(opts, dag.WithMeta(c.Meta))
		}
		if err := g.AddComponent(c.ID, opts...); err != nil {
			return nil, fmt.Errorf("component %s: %w", c.ID, err)
		}
	}
	for _, d := range m.Dependencies {
		if err := g.AddDependency(d.Requirement, d.Component); err != nil {
			return nil, fmt.Errorf("dependency %s -> %s: %w", d.Requirement, d.Component, err)
		}
	}
	return g, nil
}

// FromGraph recovers a manifest from g. Durations are always spelled out.
func FromGraph(g *dag.Graph) *Manifest {
	m := &Manifest{
		Components:   make([]ComponentDecl, 0, g.ComponentCount()),
		Dependencies: make([]DependencyDecl, 0, g.DependencyCount()),
	}
	for _, c := range g.Components() {
		d, s := c.Duration, c.StopDuration
		decl := ComponentDecl{ID: c.ID, Duration: &d, StopDuration: &s}
		if len(c.Meta) > 0 {
			decl.Meta = c.Meta
		}
		m.Components = append(m.Components, decl)
	}
	for _, e := range g.Dependencies() {
		m.Dependencies = append(m.Dependencies, DependencyDecl{Requirement: e.Requirement, Component: e.Component})
	}
	return m
}
