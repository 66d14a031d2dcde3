// Package render groups the visual outputs of a boot plan.
//
// The [nodelink] subpackage draws the dependency graph as a Graphviz
// diagram: one box per component labelled with its start and stop windows,
// components of the same startup wave on the same rank, and dependencies
// removed to break cycles drawn dashed.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Schedule: s, Layers: layers})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/bootorder/pkg/render/nodelink
package render
