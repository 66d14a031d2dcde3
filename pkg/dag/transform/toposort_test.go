package transform

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/bootorder/pkg/dag"
)

func TestTopoSort(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  []string
	}{
		{"chain", []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}}, []string{"A", "B", "C"}},
		{"reverse insertion", []string{"C", "B", "A"}, [][2]string{{"A", "B"}, {"B", "C"}}, []string{"A", "B", "C"}},
		{"ties by insertion", []string{"z", "y", "x"}, nil, []string{"z", "y", "x"}},
		{"diamond", []string{"a", "b", "c", "d"}, [][2]string{{"a", "c"}, {"a", "b"}, {"b", "d"}, {"c", "d"}}, []string{"a", "b", "c", "d"}},
		{"late root wins over earlier blocked", []string{"x", "r", "y"}, [][2]string{{"r", "x"}}, []string{"r", "x", "y"}},
		{"empty", nil, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopoSort(build(t, tt.ids, tt.edges))
			if err != nil {
				t.Fatalf("TopoSort() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopoSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopoSort_RespectsEveryEdge(t *testing.T) {
	g := build(t, []string{"f", "e", "d", "c", "b", "a"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"d", "e"}, {"a", "f"}, {"c", "f"},
	})

	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("TopoSort() error: %v", err)
	}
	if len(order) != g.ComponentCount() {
		t.Fatalf("len(order) = %d, want %d", len(order), g.ComponentCount())
	}
	pos := positions(order)
	for _, e := range g.Dependencies() {
		if pos[e.Requirement] >= pos[e.Component] {
			t.Errorf("edge %v violated by order %v", e, order)
		}
	}
}

func TestTopoSort_Cycle(t *testing.T) {
	g := build(t, []string{"root", "a", "b"}, [][2]string{{"root", "a"}, {"a", "b"}, {"b", "a"}})

	order, err := TopoSort(g)
	if !errors.Is(err, dag.ErrCyclicGraph) {
		t.Fatalf("TopoSort() error = %v, want ErrCyclicGraph", err)
	}
	if order != nil {
		t.Errorf("TopoSort() returned partial order %v", order)
	}
	if !strings.Contains(err.Error(), "a, b") {
		t.Errorf("error should name the blocked components: %v", err)
	}
}

func TestTopoSort_AfterBreakCycles(t *testing.T) {
	g := build(t, []string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "A"}})

	removed, err := BreakCycles(g)
	if err != nil {
		t.Fatalf("BreakCycles() error: %v", err)
	}
	if len(removed) != 1 {
		t.Fatalf("BreakCycles() removed %d edges, want 1", len(removed))
	}
	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("TopoSort() error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("TopoSort() = %v, want [A B]", order)
	}
}

func TestLayers(t *testing.T) {
	g := build(t, []string{"app", "auth", "cache", "db", "tool"}, [][2]string{
		{"db", "auth"}, {"db", "cache"}, {"auth", "app"}, {"cache", "app"}, {"db", "app"},
	})

	waves, err := Layers(g)
	if err != nil {
		t.Fatalf("Layers() error: %v", err)
	}
	want := map[string]int{"db": 0, "tool": 0, "auth": 1, "cache": 1, "app": 2}
	for id, w := range want {
		if waves[id] != w {
			t.Errorf("wave[%s] = %d, want %d", id, waves[id], w)
		}
	}
	if got := WaveCount(waves); got != 3 {
		t.Errorf("WaveCount() = %d, want 3", got)
	}
}

func TestLayers_Cycle(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	if _, err := Layers(g); !errors.Is(err, dag.ErrCyclicGraph) {
		t.Errorf("Layers() error = %v, want ErrCyclicGraph", err)
	}
}

func TestWaveCount_Empty(t *testing.T) {
	if got := WaveCount(nil); got != 0 {
		t.Errorf("WaveCount(nil) = %d, want 0", got)
	}
}
