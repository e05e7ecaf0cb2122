// Package render provides visualizations of rooted superclusters.
//
// The [nodelink] subpackage renders traditional directed graph diagrams
// using Graphviz:
//
//	dot := nodelink.ToDOT(rs, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/v-nys/lblp-build-zip-plugin/pkg/render/nodelink
package render
