package analysis

import (
	"errors"
	"slices"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// ErrCycle is returned when a subgraph cannot be topologically ordered.
var ErrCycle = errors.New("subgraph contains a cycle")

// TopologicalOrder returns the subgraph indices of s such that every edge
// points from an earlier to a later position.
//
// TopologicalOrder uses Kahn's algorithm. The queue is seeded with
// zero in-degree nodes in index order and successors are visited in edge
// order, so the result is deterministic for a given subgraph.
//
// Returns ErrCycle if some nodes can never reach zero in-degree.
//
// Time complexity is O(V + E).
func TopologicalOrder(s *Subgraph) ([]int, error) {
	n := s.Len()
	inDegree := make([]int, n)
	for i := range n {
		for _, next := range s.adjacency[i] {
			inDegree[next]++
		}
	}

	queue := make([]int, 0, n)
	for i, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, next := range s.adjacency[curr] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != n {
		return nil, ErrCycle
	}
	return order, nil
}

// IndexMap translates between subgraph indices and topological positions.
type IndexMap struct {
	position []int // subgraph index -> topological position
	order    []int // topological position -> subgraph index
}

func newIndexMap(order []int) IndexMap {
	position := make([]int, len(order))
	for pos, idx := range order {
		position[idx] = pos
	}
	return IndexMap{position: position, order: order}
}

// Position returns the topological position of subgraph index idx.
func (m IndexMap) Position(idx int) int { return m.position[idx] }

// Index returns the subgraph index at topological position pos.
func (m IndexMap) Index(pos int) int { return m.order[pos] }

// Order returns the topological order as subgraph indices.
func (m IndexMap) Order() []int { return slices.Clone(m.order) }

// Closure is the transitive closure of a subgraph: for every node, the
// exact set of nodes reachable via one or more edges.
type Closure struct {
	remap     IndexMap
	reachable [][]bool // by topological position
}

// NewClosure computes the transitive closure of s.
//
// # Algorithm
//
// Nodes are visited in reverse topological order. Every successor of a
// node sits at a later position, so its row is already final when the node
// is processed; the node's row is the union of its successors and their
// rows. A node never reaches itself unless the subgraph has a cycle, which
// is rejected up front.
//
// # Performance
//
// Time complexity is O(V·E) row unions in the worst case and space is O(V²)
// for the reachability matrix. Course-sized graphs have at most a few
// thousand nodes.
func NewClosure(s *Subgraph) (*Closure, error) {
	order, err := TopologicalOrder(s)
	if err != nil {
		return nil, err
	}
	remap := newIndexMap(order)

	n := s.Len()
	reachable := make([][]bool, n)
	for i := range reachable {
		reachable[i] = make([]bool, n)
	}

	for pos := n - 1; pos >= 0; pos-- {
		row := reachable[pos]
		for _, next := range s.adjacency[remap.Index(pos)] {
			nextPos := remap.Position(next)
			row[nextPos] = true
			for j, ok := range reachable[nextPos] {
				if ok {
					row[j] = true
				}
			}
		}
	}

	return &Closure{remap: remap, reachable: reachable}, nil
}

// IndexMap returns the position/index translation tables.
func (c *Closure) IndexMap() IndexMap { return c.remap }

// Reachable returns the subgraph indices reachable from subgraph index idx,
// in topological order.
func (c *Closure) Reachable(idx int) []int {
	var out []int
	for pos, ok := range c.reachable[c.remap.Position(idx)] {
		if ok {
			out = append(out, c.remap.Index(pos))
		}
	}
	return out
}

// Reaches reports whether subgraph index to is reachable from from.
func (c *Closure) Reaches(from, to int) bool {
	return c.reachable[c.remap.Position(from)][c.remap.Position(to)]
}

// ClosureView couples a subgraph with its transitive closure so queries can
// be made and answered in terms of node IDs.
type ClosureView struct {
	Graph   *Subgraph
	Closure *Closure
}

// NewClosureView filters g by t and dir and closes the result.
func NewClosureView(g *supercluster.Graph, t supercluster.EdgeType, dir Direction) (*ClosureView, error) {
	s := Filter(g, t, dir)
	c, err := NewClosure(s)
	if err != nil {
		return nil, err
	}
	return &ClosureView{Graph: s, Closure: c}, nil
}

// Reachable returns the IDs reachable from id, sorted by canonical encoding.
// It panics if id is not part of the view's graph.
func (v *ClosureView) Reachable(id supercluster.NodeID) []supercluster.NodeID {
	reach := v.Closure.Reachable(v.Graph.MustIndex(id))
	out := make([]supercluster.NodeID, len(reach))
	for i, idx := range reach {
		out[i] = v.Graph.ID(idx)
	}
	return supercluster.SortIDs(out)
}

// Reaches reports whether to is reachable from from.
// It panics if either ID is not part of the view's graph.
func (v *ClosureView) Reaches(from, to supercluster.NodeID) bool {
	return v.Closure.Reaches(v.Graph.MustIndex(from), v.Graph.MustIndex(to))
}
