package analysis

import (
	"fmt"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// MotivationView maps every motivator, i.e. every source of an AtLeastOne
// edge, to the nodes it can alternatively unlock.
type MotivationView struct {
	Graph *Subgraph
}

// NewMotivationView builds the motivation view of g.
func NewMotivationView(g *supercluster.Graph) *MotivationView {
	return &MotivationView{Graph: Filter(g, supercluster.AtLeastOne, Forward)}
}

// Motivators returns every node with at least one outgoing AtLeastOne edge,
// sorted by canonical encoding.
func (m *MotivationView) Motivators() []supercluster.NodeID {
	var out []supercluster.NodeID
	for i := range m.Graph.Len() {
		if m.Graph.OutDegree(i) > 0 {
			out = append(out, m.Graph.ID(i))
		}
	}
	return supercluster.SortIDs(out)
}

// Motivated returns the direct AtLeastOne targets of id, without
// duplicates, sorted. It panics if id is not part of the view's graph.
func (m *MotivationView) Motivated(id supercluster.NodeID) []supercluster.NodeID {
	seen := make(map[int]bool)
	var out []supercluster.NodeID
	for _, next := range m.Graph.Neighbors(m.Graph.MustIndex(id)) {
		if !seen[next] {
			seen[next] = true
			out = append(out, m.Graph.ID(next))
		}
	}
	return supercluster.SortIDs(out)
}

// MotivatorsOf returns every motivator whose motivated set intersects
// targets, sorted by canonical encoding.
func (m *MotivationView) MotivatorsOf(targets map[supercluster.NodeID]struct{}) []supercluster.NodeID {
	var out []supercluster.NodeID
	for i := range m.Graph.Len() {
		for _, next := range m.Graph.Neighbors(i) {
			if _, ok := targets[m.Graph.ID(next)]; ok {
				out = append(out, m.Graph.ID(i))
				break
			}
		}
	}
	return supercluster.SortIDs(out)
}

// Views bundles the derived views of one rooted supercluster.
type Views struct {
	// Dependency follows All edges from dependent to dependency.
	Dependency *ClosureView
	// Dependent follows All edges from dependency to dependent.
	Dependent *ClosureView
	// Motivation follows AtLeastOne edges from motivator to motivated node.
	Motivation *MotivationView
}

// BuildViews derives the dependency, dependent and motivation views of rs.
// Returns an error wrapping ErrCycle if the All-edge subgraph is cyclic.
func BuildViews(rs *supercluster.RootedSupercluster) (*Views, error) {
	dependency, err := NewClosureView(rs.Graph, supercluster.All, Reverse)
	if err != nil {
		return nil, fmt.Errorf("dependency view: %w", err)
	}
	dependent, err := NewClosureView(rs.Graph, supercluster.All, Forward)
	if err != nil {
		return nil, fmt.Errorf("dependent view: %w", err)
	}
	return &Views{
		Dependency: dependency,
		Dependent:  dependent,
		Motivation: NewMotivationView(rs.Graph),
	}, nil
}
