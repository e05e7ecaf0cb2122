// Package nodelink renders rooted superclusters as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// learning units appear as boxes connected by arrows. Hard prerequisites
// (All edges) are solid arrows, alternative prerequisites (AtLeastOne
// edges) are dashed, and roots are highlighted.
//
// # Usage
//
// Convert a supercluster to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(rs, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, labels include the node ID and, given a
//     condition map, the size of each node's unlocking condition.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
