// Package transform repairs and orders dependency graphs.
//
// # Overview
//
// Real component inventories are not always acyclic: two services may each
// list the other as a requirement, or a component may list itself. Nothing
// can be scheduled until such cycles are gone. This package provides the
// three passes that take a raw [dag.Graph] to a startup order:
//
//   - [BreakCycles] removes cycle-closing edges until the graph is acyclic
//   - [TopoSort] produces a deterministic topological order
//   - [Layers] groups components into startup waves
//
// # Cycle Breaking
//
// [BreakCycles] uses an iterative depth-first search. Every edge that
// reaches a component still on the search stack closes a cycle and is
// removed immediately. The removed edges are returned so callers can report
// what was sacrificed. This is a heuristic: it removes few edges in
// practice, but not provably the fewest.
//
// [FindCycle] reports the first cycle the same search would hit, which is
// useful when cycles should be rejected rather than repaired.
//
// # Topological Sort
//
// [TopoSort] runs Kahn's algorithm with ties broken by insertion order. It
// independently detects leftover cycles and returns [dag.ErrCyclicGraph]
// instead of a partial order.
//
// # Usage
//
//	removed, err := transform.BreakCycles(g) // modifies g in place
//	if err != nil {
//		return err
//	}
//	order, err := transform.TopoSort(g)
package transform
