package transform

import (
	"fmt"

	"github.com/matzehuels/bootorder/pkg/dag"
)

// Layers assigns every component its startup wave: roots are in wave 0 and
// every other component sits one wave below its deepest requirement.
// Components of the same wave have no dependency on each other and can
// start in parallel once the previous waves are up.
//
// # Algorithm
//
// Layers walks the graph in Kahn order (see [TopoSort]) and places each
// dependent at max(current wave + 1) over its requirements.
//
// # Cycles
//
// Layers returns [dag.ErrCyclicGraph] if g still has a cycle. Run
// [BreakCycles] first.
//
// # Performance
//
// O(V + E) time beyond the sort, O(V) space.
func Layers(g *dag.Graph) (map[string]int, error) {
	order, err := TopoSort(g)
	if err != nil {
		return nil, fmt.Errorf("layers: %w", err)
	}

	waves := make(map[string]int, len(order))
	for _, curr := range order {
		if _, ok := waves[curr]; !ok {
			waves[curr] = 0
		}
		for _, next := range g.Successors(curr) {
			if w := waves[curr] + 1; w > waves[next] {
				waves[next] = w
			}
		}
	}
	return waves, nil
}

// WaveCount returns the number of distinct waves in a layer assignment.
func WaveCount(waves map[string]int) int {
	if len(waves) == 0 {
		return 0
	}
	deepest := 0
	for _, w := range waves {
		if w > deepest {
			deepest = w
		}
	}
	return deepest + 1
}
