package supercluster

import (
	"fmt"
	"slices"
)

// RootSet is an insertion-ordered set of node IDs.
// The zero value is an empty set ready to use.
type RootSet struct {
	ids  []NodeID
	seen map[NodeID]struct{}
}

// NewRootSet creates a set from ids, dropping duplicates.
func NewRootSet(ids ...NodeID) RootSet {
	var s RootSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was not already present.
func (s *RootSet) Add(id NodeID) bool {
	if s.seen == nil {
		s.seen = make(map[NodeID]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports whether id is a root.
func (s RootSet) Contains(id NodeID) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of roots.
func (s RootSet) Len() int { return len(s.ids) }

// IDs returns the roots in insertion order.
func (s RootSet) IDs() []NodeID { return slices.Clone(s.ids) }

// Sorted returns the roots ordered by canonical encoding.
func (s RootSet) Sorted() []NodeID { return SortIDs(s.IDs()) }

// RootedSupercluster is a supercluster graph together with its declared
// roots. Roots are always unlocked.
type RootedSupercluster struct {
	Graph *Graph
	Roots RootSet
}

// NewRooted pairs g with roots. It does not validate; call Validate.
func NewRooted(g *Graph, roots ...NodeID) *RootedSupercluster {
	return &RootedSupercluster{Graph: g, Roots: NewRootSet(roots...)}
}

// IsRoot reports whether id is a declared root.
func (rs *RootedSupercluster) IsRoot(id NodeID) bool { return rs.Roots.Contains(id) }

// Validate checks that the graph exists and every root is one of its nodes.
// Edge endpoints and ID uniqueness are guaranteed by Graph construction.
func (rs *RootedSupercluster) Validate() error {
	if rs == nil || rs.Graph == nil {
		return fmt.Errorf("supercluster has no graph")
	}
	for _, id := range rs.Roots.ids {
		if !rs.Graph.Contains(id) {
			return fmt.Errorf("%w: %s", ErrUnknownRoot, id)
		}
	}
	return nil
}
