// Package dag provides the dependency graph that bootorder schedules.
//
// # Overview
//
// A [Graph] holds components and directed dependencies between them. An edge
// requirement → component means the requirement must finish starting before
// the component may begin. The graph may contain cycles while it is being
// built; the [transform] subpackage repairs them and orders the result.
//
// # Basic Usage
//
// Create a graph with [New], register components with [Graph.AddComponent]
// and edges with [Graph.AddDependency]:
//
//	g := dag.New()
//	g.AddComponent("db", dag.WithDuration(5))
//	g.AddComponent("api", dag.WithDuration(2), dag.WithStopDuration(1))
//	g.AddDependency("db", "api") // db before api
//
// Components without [WithDuration] take [DefaultDuration]. Durations are
// plain numbers in whatever unit the caller chooses.
//
// # Determinism
//
// Components and edges remember their insertion order. [Graph.Roots],
// [Graph.Sinks], [Graph.Successors] and every other listing follow it, so
// traversals built on the graph produce identical results for identical
// input.
//
// # Errors
//
// Construction fails fast: a duplicate id yields [ErrDuplicateComponent], an
// edge to an unregistered id yields [ErrUnknownComponent] and a negative
// duration yields [ErrInvalidDuration]. Errors wrap the sentinel together
// with the offending id, so use errors.Is to test for them.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Separate graphs share no
// state and can be processed in parallel.
//
// [transform]: github.com/matzehuels/bootorder/pkg/dag/transform
package dag
