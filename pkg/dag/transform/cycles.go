package transform

import (
	"fmt"
	"slices"

	"github.com/matzehuels/bootorder/pkg/dag"
)

const (
	white = iota // not yet visited
	gray         // on the DFS stack
	black        // fully processed
)

type frame struct {
	id       string
	children []string
	next     int
}

// BreakCycles removes edges from g until it is acyclic and returns the
// removed edges in the order they were removed.
//
// # Algorithm
//
// BreakCycles runs an iterative depth-first search with white/gray/black
// coloring. It starts from the roots of g in insertion order, then from every
// component still unvisited, again in insertion order. Successors are
// explored in insertion order. An edge that reaches a gray component closes
// a cycle; it is removed on the spot and the search continues with the next
// successor. Passes repeat until one removes nothing.
//
// # Edge Selection
//
// The edge removed is always the one that closes the cycle just found, never
// one chosen by weight or frequency. The result is a feedback arc set but
// not necessarily a minimum one; finding the minimum is NP-hard.
//
// # Errors
//
// Removal is capped at the edge count g started with. Going past the cap
// means an internal invariant broke and BreakCycles returns
// [dag.ErrUnresolvableCycle] along with the edges removed so far.
//
// # Performance
//
// Each pass is O(V + E) plus O(degree) for every removed edge, so a dense
// graph with many two-way dependencies stays near O(V·E). A single pass already leaves g acyclic, so the
// second pass is a confirmation that removes nothing.
func BreakCycles(g *dag.Graph) ([]dag.Dependency, error) {
	limit := g.DependencyCount()
	var removed []dag.Dependency

	for {
		n := breakCyclesPass(g, &removed)
		if len(removed) > limit {
			return removed, fmt.Errorf("%w: removed %d edges from a graph of %d", dag.ErrUnresolvableCycle, len(removed), limit)
		}
		if n == 0 {
			return removed, nil
		}
	}
}

func breakCyclesPass(g *dag.Graph, removed *[]dag.Dependency) int {
	color := make(map[string]int, g.ComponentCount())
	count := 0

	visit := func(start string) {
		color[start] = gray
		// Successor lists are copied because removal edits them in place.
		stack := []frame{{id: start, children: slices.Clone(g.Successors(start))}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.children[top.next]
			top.next++

			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child, children: slices.Clone(g.Successors(child))})
			case gray:
				if g.RemoveDependency(top.id, child) {
					*removed = append(*removed, dag.Dependency{Requirement: top.id, Component: child})
					count++
				}
			}
		}
	}

	for _, id := range g.Roots() {
		if color[id] == white {
			visit(id)
		}
	}
	for _, id := range g.IDs() {
		if color[id] == white {
			visit(id)
		}
	}
	return count
}

// FindCycle returns one directed cycle of g as a path of component ids that
// starts and ends with the same id, or nil if g is acyclic. The search order
// matches [BreakCycles], so the reported cycle is the one BreakCycles would
// repair first.
func FindCycle(g *dag.Graph) []string {
	color := make(map[string]int, g.ComponentCount())

	starts := append(g.Roots(), g.IDs()...)
	for _, start := range starts {
		if color[start] != white {
			continue
		}
		color[start] = gray
		stack := []frame{{id: start, children: g.Successors(start)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.children[top.next]
			top.next++

			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child, children: g.Successors(child)})
			case gray:
				return cyclePath(stack, child)
			}
		}
	}
	return nil
}

// cyclePath extracts the cycle ending at target from the DFS stack.
func cyclePath(stack []frame, target string) []string {
	i := len(stack) - 1
	for i > 0 && stack[i].id != target {
		i--
	}
	path := make([]string, 0, len(stack)-i+1)
	for _, f := range stack[i:] {
		path = append(path, f.id)
	}
	return append(path, target)
}
