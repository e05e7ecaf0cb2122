package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/unlock"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node ID below the title and, when Conditions is
	// set, the size of each node's unlocking condition.
	Detailed bool

	// Conditions, if non-nil, is used for detailed labels.
	Conditions unlock.ConditionMap
}

// ToDOT converts a rooted supercluster to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// All edges are drawn solid and AtLeastOne edges dashed. Roots are filled
// with a highlight colour.
func ToDOT(rs *supercluster.RootedSupercluster, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	g := rs.Graph
	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts)
		attrs := fmtAttrs(n, label, rs.IsRoot(n.ID))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from, to := g.Node(e.From).ID.String(), g.Node(e.To).ID.String()
		if e.Type == supercluster.AtLeastOne {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", from, to)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n supercluster.Node, opts Options) string {
	title := n.Title
	if title == "" {
		title = n.ID.String()
	}
	if !opts.Detailed {
		return title
	}

	parts := []string{n.ID.String()}
	if opts.Conditions != nil {
		if c, ok := opts.Conditions[n.ID]; ok {
			if c == nil {
				parts = append(parts, "root")
			} else {
				parts = append(parts, fmt.Sprintf("all_of: %d, one_of: %d", len(c.AllOf), len(c.OneOf)))
			}
		}
	}
	return title + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n supercluster.Node, label string, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if root {
		attrs = append(attrs, "fillcolor=lightgoldenrod1", "penwidth=2")
	}
	return attrs
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
