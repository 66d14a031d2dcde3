// Package nodelink renders boot plans as node-link diagrams.
//
// # Overview
//
// Components appear as rounded boxes connected by arrows from requirement to
// dependent. Components that may start together share a rank, so the
// diagram reads top to bottom in startup waves.
//
// # Usage
//
// Convert a graph to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Schedule: s, Layers: waves})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include durations and metadata
//   - Schedule: node labels include startup and shutdown times
//   - Layers: components of the same wave are placed on the same rank
//   - Removed: dependencies dropped by cycle repair, drawn dashed red
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
