package io

import (
	"fmt"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// Document is the serialisable form of a rooted supercluster.
type Document struct {
	Nodes        []Node   `json:"nodes" yaml:"nodes"`
	AllTypeEdges []Edge   `json:"all_type_edges,omitempty" yaml:"all_type_edges,omitempty"`
	AnyTypeEdges []Edge   `json:"any_type_edges,omitempty" yaml:"any_type_edges,omitempty"`
	Roots        []string `json:"roots,omitempty" yaml:"roots,omitempty"`
}

// Node is one entry of Document.Nodes.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Edge is one entry of Document.AllTypeEdges or Document.AnyTypeEdges.
type Edge struct {
	StartID string `json:"start_id" yaml:"start_id"`
	EndID   string `json:"end_id" yaml:"end_id"`
}

// NewDocument converts rs into its document form.
func NewDocument(rs *supercluster.RootedSupercluster) Document {
	g := rs.Graph
	doc := Document{Nodes: make([]Node, 0, g.NodeCount())}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID.String(), Title: n.Title})
	}
	for _, e := range g.Edges() {
		de := Edge{StartID: g.Node(e.From).ID.String(), EndID: g.Node(e.To).ID.String()}
		switch e.Type {
		case supercluster.All:
			doc.AllTypeEdges = append(doc.AllTypeEdges, de)
		case supercluster.AtLeastOne:
			doc.AnyTypeEdges = append(doc.AnyTypeEdges, de)
		}
	}
	if rs.Roots.Len() > 0 {
		doc.Roots = supercluster.IDStrings(rs.Roots.Sorted())
	}
	return doc
}

// Rooted builds and validates the rooted supercluster described by d.
//
// Errors are wrapped with the offending node, edge or root and wrap the
// supercluster sentinel errors.
func (d Document) Rooted() (*supercluster.RootedSupercluster, error) {
	g := supercluster.New()
	for _, n := range d.Nodes {
		id, err := supercluster.ParseNodeID(n.ID)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
		if err := g.AddNode(supercluster.Node{ID: id, Title: n.Title}); err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}
	if err := addEdges(g, d.AllTypeEdges, supercluster.All); err != nil {
		return nil, err
	}
	if err := addEdges(g, d.AnyTypeEdges, supercluster.AtLeastOne); err != nil {
		return nil, err
	}

	roots := make([]supercluster.NodeID, 0, len(d.Roots))
	for _, r := range d.Roots {
		id, err := supercluster.ParseNodeID(r)
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", r, err)
		}
		roots = append(roots, id)
	}
	rs := supercluster.NewRooted(g, roots...)
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

func addEdges(g *supercluster.Graph, edges []Edge, t supercluster.EdgeType) error {
	for _, e := range edges {
		from, err := supercluster.ParseNodeID(e.StartID)
		if err != nil {
			return fmt.Errorf("%s edge %q->%q: %w", t, e.StartID, e.EndID, err)
		}
		to, err := supercluster.ParseNodeID(e.EndID)
		if err != nil {
			return fmt.Errorf("%s edge %q->%q: %w", t, e.StartID, e.EndID, err)
		}
		if err := g.AddEdge(from, to, t); err != nil {
			return fmt.Errorf("%s edge %s->%s: %w", t, from, to, err)
		}
	}
	return nil
}
