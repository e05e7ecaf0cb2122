package analysis

import (
	"fmt"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// Direction selects how supercluster edges are oriented in a subgraph.
type Direction int

const (
	// Forward keeps edges as declared: source → target.
	Forward Direction = iota
	// Reverse flips every edge: target → source.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Subgraph is a renumbered view of a supercluster restricted to one edge
// type. It contains every supercluster node, so lookups by NodeID never
// miss for a consistent input.
type Subgraph struct {
	edgeType  supercluster.EdgeType
	direction Direction
	ids       []supercluster.NodeID       // subgraph index -> node ID
	index     map[supercluster.NodeID]int // node ID -> subgraph index
	adjacency [][]int
	edgeCount int
}

// Filter builds the subgraph of g induced by edges of type t, oriented by dir.
// Nodes are numbered in the order they appear in g.
func Filter(g *supercluster.Graph, t supercluster.EdgeType, dir Direction) *Subgraph {
	nodes := g.Nodes()
	s := &Subgraph{
		edgeType:  t,
		direction: dir,
		ids:       make([]supercluster.NodeID, len(nodes)),
		index:     make(map[supercluster.NodeID]int, len(nodes)),
		adjacency: make([][]int, len(nodes)),
	}
	for i, n := range nodes {
		s.ids[i] = n.ID
		s.index[n.ID] = i
	}
	for _, e := range g.EdgesOfType(t) {
		src := s.index[g.Node(e.From).ID]
		dst := s.index[g.Node(e.To).ID]
		if dir == Reverse {
			src, dst = dst, src
		}
		s.adjacency[src] = append(s.adjacency[src], dst)
		s.edgeCount++
	}
	return s
}

// EdgeType returns the edge type the subgraph was filtered on.
func (s *Subgraph) EdgeType() supercluster.EdgeType { return s.edgeType }

// Direction returns the subgraph's edge orientation.
func (s *Subgraph) Direction() Direction { return s.direction }

// Len returns the number of nodes.
func (s *Subgraph) Len() int { return len(s.ids) }

// EdgeCount returns the number of kept edges.
func (s *Subgraph) EdgeCount() int { return s.edgeCount }

// Index returns the subgraph index of id.
func (s *Subgraph) Index(id supercluster.NodeID) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// MustIndex is like Index but panics when id is absent. A miss means the
// subgraph was built from a different graph than the caller's, which is an
// internal invariant violation.
func (s *Subgraph) MustIndex(id supercluster.NodeID) int {
	i, ok := s.index[id]
	if !ok {
		panic(fmt.Sprintf("analysis: node %s missing from %s %s subgraph", id, s.direction, s.edgeType))
	}
	return i
}

// ID returns the node ID at subgraph index i.
func (s *Subgraph) ID(i int) supercluster.NodeID { return s.ids[i] }

// Neighbors returns the direct successors of subgraph index i.
// The returned slice should not be modified.
func (s *Subgraph) Neighbors(i int) []int { return s.adjacency[i] }

// OutDegree returns the number of edges leaving subgraph index i.
func (s *Subgraph) OutDegree(i int) int { return len(s.adjacency[i]) }
