package supercluster

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned when a node ID has an empty local part.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs are unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownEdgeType is returned for edge types other than All and AtLeastOne.
	ErrUnknownEdgeType = errors.New("unknown edge type")

	// ErrUnknownRoot is returned by [RootedSupercluster.Validate] when a
	// declared root is not a node of the graph.
	ErrUnknownRoot = errors.New("root is not a node of the graph")
)

// EdgeType labels a prerequisite relation.
type EdgeType int

const (
	// All marks a hard prerequisite: every All-source must be completed.
	All EdgeType = iota
	// AtLeastOne marks a soft prerequisite: the source is one alternative
	// motivator among possibly several.
	AtLeastOne
)

var edgeTypeNames = map[EdgeType]string{
	All:        "all",
	AtLeastOne: "at_least_one",
}

// String returns "all" or "at_least_one".
func (t EdgeType) String() string {
	if s, ok := edgeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EdgeType(%d)", int(t))
}

// Valid reports whether t is All or AtLeastOne.
func (t EdgeType) Valid() bool {
	_, ok := edgeTypeNames[t]
	return ok
}

// ParseEdgeType parses the text form returned by [EdgeType.String].
func ParseEdgeType(s string) (EdgeType, error) {
	for t, name := range edgeTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEdgeType, s)
}

// NodeIndex is a stable handle into a [Graph]'s node arena.
type NodeIndex int

// EdgeIndex is a stable handle into a [Graph]'s edge list.
type EdgeIndex int

// Node is a learning unit. Identity is the ID; the title is display only.
type Node struct {
	ID    NodeID
	Title string
}

// Edge is a typed directed relation between two nodes of the same graph.
type Edge struct {
	From NodeIndex
	To   NodeIndex
	Type EdgeType
}

// Graph is a directed multigraph over learning units with typed edges.
//
// The zero value is not usable - use New to create a graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    []Node
	index    map[NodeID]NodeIndex
	edges    []Edge
	outgoing [][]EdgeIndex
	incoming [][]EdgeIndex
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[NodeID]NodeIndex)}
}

// AddNode appends a node to the arena. Its handle is the node count before
// the call. Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the ID
// is already present.
func (g *Graph) AddNode(n Node) error {
	if !n.ID.Valid() {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.index[n.ID] = NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	return nil
}

// AddEdge adds a typed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is
// missing, or ErrUnknownEdgeType for an invalid type. Parallel edges and a
// node pair carrying both types are allowed.
func (g *Graph) AddEdge(from, to NodeID, t EdgeType) error {
	src, ok := g.index[from]
	if !ok {
		return ErrUnknownSourceNode
	}
	dst, ok := g.index[to]
	if !ok {
		return ErrUnknownTargetNode
	}
	if !t.Valid() {
		return ErrUnknownEdgeType
	}
	e := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, Edge{From: src, To: dst, Type: t})
	g.outgoing[src] = append(g.outgoing[src], e)
	g.incoming[dst] = append(g.incoming[dst], e)
	return nil
}

// Nodes returns a copy of all nodes in insertion order.
// The position of a node in the slice equals its NodeIndex.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgesOfType returns the edges of type t in insertion order.
func (g *Graph) EdgesOfType(t EdgeType) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node behind a handle. It panics if idx is out of range.
func (g *Graph) Node(idx NodeIndex) Node { return g.nodes[idx] }

// Edge returns the edge behind a handle. It panics if idx is out of range.
func (g *Graph) Edge(idx EdgeIndex) Edge { return g.edges[idx] }

// Lookup returns the handle of the node with the given ID.
func (g *Graph) Lookup(id NodeID) (NodeIndex, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// Contains reports whether a node with the given ID exists.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Outgoing returns the handles of edges leaving idx.
// The returned slice should not be modified.
func (g *Graph) Outgoing(idx NodeIndex) []EdgeIndex { return g.outgoing[idx] }

// Incoming returns the handles of edges entering idx.
// The returned slice should not be modified.
func (g *Graph) Incoming(idx NodeIndex) []EdgeIndex { return g.incoming[idx] }

// Successors returns the targets of edges of type t leaving id, in edge
// insertion order. Returns nil for unknown IDs.
func (g *Graph) Successors(id NodeID, t EdgeType) []NodeID {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	var out []NodeID
	for _, e := range g.outgoing[idx] {
		if edge := g.edges[e]; edge.Type == t {
			out = append(out, g.nodes[edge.To].ID)
		}
	}
	return out
}

// Predecessors returns the sources of edges of type t entering id, in edge
// insertion order. Returns nil for unknown IDs.
func (g *Graph) Predecessors(id NodeID, t EdgeType) []NodeID {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	var out []NodeID
	for _, e := range g.incoming[idx] {
		if edge := g.edges[e]; edge.Type == t {
			out = append(out, g.nodes[edge.From].ID)
		}
	}
	return out
}
