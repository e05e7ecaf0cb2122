package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/unlock"
)

func sample(t *testing.T) *supercluster.RootedSupercluster {
	t.Helper()
	id := supercluster.MustParseNodeID
	g := supercluster.New()
	for _, n := range []supercluster.Node{
		{ID: id("c__a"), Title: "Alpha"},
		{ID: id("c__b"), Title: "Beta"},
		{ID: id("c__m"), Title: ""},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(id("c__a"), id("c__b"), supercluster.All); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(id("c__m"), id("c__b"), supercluster.AtLeastOne); err != nil {
		t.Fatal(err)
	}
	return supercluster.NewRooted(g, id("c__a"))
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `"c__a" [label="Alpha"`) {
		t.Errorf("ToDOT() output missing node a:\n%s", dot)
	}
	if !strings.Contains(dot, `"c__a" -> "c__b";`) {
		t.Error("ToDOT() output missing solid All edge")
	}
	if !strings.Contains(dot, `"c__m" -> "c__b" [style=dashed];`) {
		t.Error("ToDOT() output missing dashed AtLeastOne edge")
	}
}

func TestToDOT_Root(t *testing.T) {
	dot := ToDOT(sample(t), Options{})
	for _, line := range strings.Split(dot, "\n") {
		highlighted := strings.Contains(line, "lightgoldenrod1")
		if strings.Contains(line, `"c__a" [`) && !highlighted {
			t.Error("root c__a is not highlighted")
		}
		if strings.Contains(line, `"c__b" [`) && highlighted {
			t.Error("non-root c__b is highlighted")
		}
	}
}

func TestFmtLabel(t *testing.T) {
	n := supercluster.Node{ID: supercluster.MustParseNodeID("c__b"), Title: "Beta"}
	if got := fmtLabel(n, Options{}); got != "Beta" {
		t.Errorf("fmtLabel() simple = %q, want Beta", got)
	}

	untitled := supercluster.Node{ID: supercluster.MustParseNodeID("c__x")}
	if got := fmtLabel(untitled, Options{}); got != "c__x" {
		t.Errorf("fmtLabel() untitled = %q, want c__x", got)
	}

	cm := unlock.ConditionMap{
		n.ID: {AllOf: []supercluster.NodeID{supercluster.MustParseNodeID("c__a")}, OneOf: []supercluster.NodeID{}},
	}
	got := fmtLabel(n, Options{Detailed: true, Conditions: cm})
	if got != "Beta\nc__b\nall_of: 1, one_of: 0" {
		t.Errorf("fmtLabel() detailed = %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(string(svg), "Alpha") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg><g/></svg>")); string(got) != "<svg><g/></svg>" {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}
