package unlock

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/analysis"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

func id(s string) supercluster.NodeID { return supercluster.MustParseNodeID(s) }

func ids(ss ...string) []supercluster.NodeID {
	out := make([]supercluster.NodeID, len(ss))
	for i, s := range ss {
		out[i] = id(s)
	}
	return out
}

type edge struct {
	from, to string
	typ      supercluster.EdgeType
}

func build(t *testing.T, nodes []string, edges []edge, roots ...string) *supercluster.RootedSupercluster {
	t.Helper()
	g := supercluster.New()
	for _, n := range nodes {
		if err := g.AddNode(supercluster.Node{ID: id(n), Title: n}); err != nil {
			t.Fatalf("AddNode(%s): %v", n, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(id(e.from), id(e.to), e.typ); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e.from, e.to, err)
		}
	}
	return supercluster.NewRooted(g, ids(roots...)...)
}

func cond(allOf, oneOf []supercluster.NodeID) *UnlockingCondition {
	if allOf == nil {
		allOf = []supercluster.NodeID{}
	}
	if oneOf == nil {
		oneOf = []supercluster.NodeID{}
	}
	return &UnlockingCondition{AllOf: allOf, OneOf: oneOf}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges []edge
		roots []string
		want  ConditionMap
	}{
		{
			name:  "hard prerequisite",
			nodes: []string{"A", "B"},
			edges: []edge{{"A", "B", supercluster.All}},
			roots: []string{"A"},
			want: ConditionMap{
				id("A"): nil,
				id("B"): cond(ids("A"), nil),
			},
		},
		{
			name:  "motivator",
			nodes: []string{"A", "C"},
			edges: []edge{{"A", "C", supercluster.AtLeastOne}},
			roots: []string{"A"},
			want: ConditionMap{
				id("A"): nil,
				id("C"): cond(nil, ids("A")),
			},
		},
		{
			name:  "diamond keeps transitive dependencies",
			nodes: []string{"A", "B", "C", "D"},
			edges: []edge{
				{"A", "B", supercluster.All},
				{"A", "C", supercluster.All},
				{"B", "D", supercluster.All},
				{"C", "D", supercluster.All},
			},
			roots: []string{"A"},
			want: ConditionMap{
				id("A"): nil,
				id("B"): cond(ids("A"), nil),
				id("C"): cond(ids("A"), nil),
				id("D"): cond(ids("A", "B", "C"), nil),
			},
		},
		{
			name:  "motivator of a dependent",
			nodes: []string{"M", "X", "Y"},
			edges: []edge{
				{"X", "Y", supercluster.All},
				{"M", "Y", supercluster.AtLeastOne},
			},
			roots: []string{"M"},
			want: ConditionMap{
				id("M"): nil,
				id("X"): cond(nil, ids("M")),
				id("Y"): cond(ids("X"), ids("M")),
			},
		},
		{
			name:  "isolated non-root",
			nodes: []string{"A", "lone"},
			roots: []string{"A"},
			want: ConditionMap{
				id("A"):    nil,
				id("lone"): cond(nil, nil),
			},
		},
		{
			name:  "namespaced ids",
			nodes: []string{"ns__a", "ns__b", "other__c"},
			edges: []edge{
				{"ns__a", "ns__b", supercluster.All},
				{"other__c", "ns__b", supercluster.AtLeastOne},
			},
			roots: []string{"ns__a", "other__c"},
			want: ConditionMap{
				id("ns__a"):    nil,
				id("other__c"): nil,
				id("ns__b"):    cond(ids("ns__a"), ids("other__c")),
			},
		},
		{
			name:  "soft cycle is allowed",
			nodes: []string{"A", "B"},
			edges: []edge{
				{"A", "B", supercluster.AtLeastOne},
				{"B", "A", supercluster.AtLeastOne},
			},
			want: ConditionMap{
				id("A"): cond(nil, ids("B")),
				id("B"): cond(nil, ids("A")),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := build(t, tt.nodes, tt.edges, tt.roots...)
			got, err := Compile(rs)
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_Cycle(t *testing.T) {
	rs := build(t,
		[]string{"A", "B"},
		[]edge{
			{"A", "B", supercluster.All},
			{"B", "A", supercluster.All},
		},
	)
	if _, err := Compile(rs); !errors.Is(err, analysis.ErrCycle) {
		t.Errorf("Compile() error = %v, want ErrCycle", err)
	}
}

func TestCompile_Properties(t *testing.T) {
	rs := build(t,
		[]string{"r", "a", "b", "c", "d", "m", "n"},
		[]edge{
			{"r", "a", supercluster.All},
			{"a", "b", supercluster.All},
			{"b", "c", supercluster.All},
			{"a", "d", supercluster.All},
			{"m", "c", supercluster.AtLeastOne},
			{"n", "d", supercluster.AtLeastOne},
			{"r", "m", supercluster.All},
		},
		"r", "n",
	)
	cm, err := Compile(rs)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	views, err := analysis.BuildViews(rs)
	if err != nil {
		t.Fatalf("BuildViews() error: %v", err)
	}

	if len(cm) != rs.Graph.NodeCount() {
		t.Fatalf("len(cm) = %d, want one entry per node (%d)", len(cm), rs.Graph.NodeCount())
	}

	for _, n := range rs.Graph.Nodes() {
		c := cm[n.ID]
		if rs.IsRoot(n.ID) {
			if c != nil {
				t.Errorf("root %s has condition %+v", n.ID, c)
			}
			continue
		}
		if c == nil {
			t.Fatalf("non-root %s has nil condition", n.ID)
		}
		for _, dep := range c.AllOf {
			if dep == n.ID {
				t.Errorf("%s lists itself in all_of", n.ID)
			}
			if !views.Dependency.Reaches(n.ID, dep) {
				t.Errorf("%s all_of contains %s, which it does not depend on", n.ID, dep)
			}
		}
		for _, m := range c.OneOf {
			if len(views.Motivation.Motivated(m)) == 0 {
				t.Errorf("%s one_of contains non-motivator %s", n.ID, m)
			}
		}
	}

	// m motivates c and n motivates d; every node a depends on is needed by
	// whichever of them it leads to
	wantOneOf := map[string][]supercluster.NodeID{
		"a": ids("m", "n"),
		"b": ids("m"),
		"c": ids("m"),
		"d": ids("n"),
	}
	for target, want := range wantOneOf {
		if got := cm[id(target)].OneOf; !cmp.Equal(got, want) {
			t.Errorf("one_of(%s) = %v, want %v", target, got, want)
		}
	}
}

func TestCompile_Deterministic(t *testing.T) {
	rs := build(t,
		[]string{"z", "y", "x", "w"},
		[]edge{
			{"z", "w", supercluster.All},
			{"y", "w", supercluster.All},
			{"x", "w", supercluster.AtLeastOne},
		},
		"z", "y", "x",
	)
	first, err := Compile(rs)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	for range 5 {
		again, err := Compile(rs)
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Compile() not deterministic (-first +again):\n%s", diff)
		}
	}
	if got := first[id("w")].AllOf; !cmp.Equal(got, ids("y", "z")) {
		t.Errorf("all_of(w) = %v, want sorted [y z]", got)
	}
}

func TestCompileViews_ForeignViewsPanic(t *testing.T) {
	rs := build(t, []string{"A", "B"}, []edge{{"A", "B", supercluster.All}}, "A")
	other := build(t, []string{"A"}, nil)
	views, err := analysis.BuildViews(other)
	if err != nil {
		t.Fatalf("BuildViews() error: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("CompileViews() with foreign views should panic")
		}
	}()
	CompileViews(rs, views)
}
