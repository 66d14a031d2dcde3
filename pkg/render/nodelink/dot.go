package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/schedule"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes durations and metadata in node labels.
	// When false, only the id and (if known) times are shown.
	Detailed bool

	// Schedule adds startup and shutdown times to labels.
	Schedule *schedule.Schedule

	// Layers groups components of the same startup wave on one rank.
	Layers map[string]int

	// Removed lists dependencies dropped by cycle repair.
	Removed []dag.Dependency

	// Unit is appended to times and durations.
	Unit string
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, c := range g.Components() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", c.ID, fmtLabel(c, opts))
	}

	if len(opts.Layers) > 0 {
		buf.WriteString("\n")
		for _, wave := range waves(g, opts.Layers) {
			quoted := make([]string, len(wave))
			for i, id := range wave {
				quoted[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Dependencies() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Requirement, e.Component)
	}
	for _, e := range opts.Removed {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=red, constraint=false];\n", e.Requirement, e.Component)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// waves groups component ids by layer, in insertion order within a layer.
// Single-member layers are skipped.
func waves(g *dag.Graph, layers map[string]int) [][]string {
	byLayer := make(map[int][]string)
	for _, id := range g.IDs() {
		if l, ok := layers[id]; ok {
			byLayer[l] = append(byLayer[l], id)
		}
	}
	var out [][]string
	for _, l := range slices.Sorted(maps.Keys(byLayer)) {
		if len(byLayer[l]) > 1 {
			out = append(out, byLayer[l])
		}
	}
	return out
}

func fmtLabel(c dag.Component, opts Options) string {
	parts := []string{c.ID}
	if s := opts.Schedule; s != nil {
		parts = append(parts,
			fmt.Sprintf("start %s → %s", fmtTime(s.Startup[c.ID], opts.Unit), fmtTime(s.StartupFinish(c.ID), opts.Unit)),
			fmt.Sprintf("stop %s → %s", fmtTime(s.Shutdown[c.ID], opts.Unit), fmtTime(s.ShutdownFinish(c.ID), opts.Unit)),
		)
	}
	if !opts.Detailed {
		return strings.Join(parts, "\n")
	}

	parts = append(parts, fmt.Sprintf("duration: %s", fmtTime(c.Duration, opts.Unit)))
	if c.StopDuration != c.Duration {
		parts = append(parts, fmt.Sprintf("stop duration: %s", fmtTime(c.StopDuration, opts.Unit)))
	}
	for _, k := range slices.Sorted(maps.Keys(c.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, c.Meta[k]))
	}
	return strings.Join(parts, "\n")
}

func fmtTime(t float64, unit string) string {
	return strconv.FormatFloat(t, 'f', -1, 64) + unit
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
