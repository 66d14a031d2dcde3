// Package pkg provides the libraries behind bootorder.
//
// # Overview
//
// Bootorder takes a set of components with startup and shutdown durations
// and the dependencies between them, and answers two questions: in which
// order can they start, and when can each one begin starting (and later,
// shutting down) if independent components run in parallel.
//
// # Architecture
//
//	Manifest (JSON / TOML / YAML)
//	         ↓
//	    [io] package (decode, validate, build the graph)
//	         ↓
//	    [dag] package (graph structure)
//	         ↓
//	    [dag/transform] package (break cycles, topological order, waves)
//	         ↓
//	    [schedule] package (startup and shutdown times)
//	         ↓
//	    [pipeline] package (caching, hooks, rendering)
//	         ↓
//	Table, JSON, DOT or SVG output; HTTP API in [server]
//
// Supporting packages: [cache] (file, memory and Redis caches), [store]
// (plan persistence, MongoDB in [store/mongo]), [config], [errors] (coded
// errors) and [observability] (hooks).
//
// # Quick Start
//
//	g := dag.New()
//	_ = g.AddComponent("db", dag.WithDuration(5))
//	_ = g.AddComponent("api", dag.WithDuration(2))
//	_ = g.AddDependency("db", "api")
//
//	if _, err := transform.BreakCycles(g); err != nil {
//	    return err
//	}
//	order, err := transform.TopoSort(g)
//	if err != nil {
//	    return err
//	}
//	s, err := schedule.Compute(g, order)
//	// s.Startup["api"] == 5
//
// [io]: github.com/matzehuels/bootorder/pkg/io
// [dag]: github.com/matzehuels/bootorder/pkg/dag
// [dag/transform]: github.com/matzehuels/bootorder/pkg/dag/transform
// [schedule]: github.com/matzehuels/bootorder/pkg/schedule
// [pipeline]: github.com/matzehuels/bootorder/pkg/pipeline
// [server]: github.com/matzehuels/bootorder/pkg/server
// [cache]: github.com/matzehuels/bootorder/pkg/cache
// [store]: github.com/matzehuels/bootorder/pkg/store
// [store/mongo]: github.com/matzehuels/bootorder/pkg/store/mongo
// [config]: github.com/matzehuels/bootorder/pkg/config
// [errors]: github.com/matzehuels/bootorder/pkg/errors
// [observability]: github.com/matzehuels/bootorder/pkg/observability
package pkg
