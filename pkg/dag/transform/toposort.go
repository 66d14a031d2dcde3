package transform

import (
	"container/heap"
	"fmt"
	"strings"

	"github.com/matzehuels/bootorder/pkg/dag"
)

// TopoSort returns every component of g in an order where each requirement
// precedes the components that depend on it.
//
// # Algorithm
//
// TopoSort uses Kahn's algorithm. Components with no remaining requirements
// wait in a ready set; the one added to g earliest is emitted next, its
// dependents lose one pending requirement, and any that reach zero join the
// ready set. Ties therefore follow insertion order and the result is
// reproducible.
//
// # Cycles
//
// TopoSort does not trust callers to have run [BreakCycles]. If the ready
// set empties before every component is emitted, the remaining components
// sit on or behind a cycle and TopoSort returns [dag.ErrCyclicGraph] naming
// them. It never returns a partial order.
//
// # Performance
//
// O((V + E) log V) time and O(V) space.
func TopoSort(g *dag.Graph) ([]string, error) {
	ids := g.IDs()
	inDegree := make(map[string]int, len(ids))
	ready := &indexHeap{}

	for i, id := range ids {
		inDegree[id] = g.InDegree(id)
		if inDegree[id] == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]string, 0, len(ids))
	for ready.Len() > 0 {
		curr := ids[heap.Pop(ready).(int)]
		order = append(order, curr)
		for _, next := range g.Successors(curr) {
			inDegree[next]--
			if inDegree[next] == 0 {
				heap.Push(ready, g.Index(next))
			}
		}
	}

	if len(order) < len(ids) {
		var blocked []string
		for _, id := range ids {
			if inDegree[id] > 0 {
				blocked = append(blocked, id)
			}
		}
		return nil, fmt.Errorf("%w: unordered components: %s", dag.ErrCyclicGraph, strings.Join(blocked, ", "))
	}
	return order, nil
}

// indexHeap is a min-heap of insertion indices.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
