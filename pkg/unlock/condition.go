package unlock

import (
	"slices"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// UnlockingCondition is the requirement a learner has to meet before a
// node becomes available. Both sets are sorted and free of duplicates.
type UnlockingCondition struct {
	AllOf []supercluster.NodeID
	OneOf []supercluster.NodeID
}

// Satisfied reports whether the condition holds for the given completion
// state: every AllOf node is completed, and when OneOf is non-empty at least
// one of its nodes is completed too. A nil condition is always satisfied.
func (c *UnlockingCondition) Satisfied(completed func(supercluster.NodeID) bool) bool {
	if c == nil {
		return true
	}
	for _, id := range c.AllOf {
		if !completed(id) {
			return false
		}
	}
	return len(c.OneOf) == 0 || slices.ContainsFunc(c.OneOf, completed)
}

// Equal reports whether c and other describe the same condition.
func (c *UnlockingCondition) Equal(other *UnlockingCondition) bool {
	if c == nil || other == nil {
		return c == other
	}
	return slices.Equal(c.AllOf, other.AllOf) && slices.Equal(c.OneOf, other.OneOf)
}

// ConditionMap maps every node of a supercluster to its unlocking
// condition. Roots map to nil; every other node maps to a non-nil value.
type ConditionMap map[supercluster.NodeID]*UnlockingCondition

// IDs returns the keys of cm sorted by canonical encoding.
func (cm ConditionMap) IDs() []supercluster.NodeID {
	ids := make([]supercluster.NodeID, 0, len(cm))
	for id := range cm {
		ids = append(ids, id)
	}
	return supercluster.SortIDs(ids)
}

// Unlocked returns, sorted, the nodes whose condition holds for the given
// completion state and that are not completed themselves.
func (cm ConditionMap) Unlocked(completed func(supercluster.NodeID) bool) []supercluster.NodeID {
	var out []supercluster.NodeID
	for id, cond := range cm {
		if !completed(id) && cond.Satisfied(completed) {
			out = append(out, id)
		}
	}
	return supercluster.SortIDs(out)
}
