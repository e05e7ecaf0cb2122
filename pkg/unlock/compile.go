package unlock

import (
	"github.com/v-nys/lblp-build-zip-plugin/pkg/analysis"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// Compile builds the views of rs and derives the unlocking condition of
// every node. The only possible error wraps analysis.ErrCycle.
func Compile(rs *supercluster.RootedSupercluster) (ConditionMap, error) {
	views, err := analysis.BuildViews(rs)
	if err != nil {
		return nil, err
	}
	return CompileViews(rs, views), nil
}

// CompileViews derives the unlocking condition of every node of rs from
// views, which must have been built from rs.
//
// For a non-root node n:
//
//	AllOf = nodes reachable from n in the dependency view
//	OneOf = motivators whose motivated set intersects
//	        {n} ∪ nodes reachable from n in the dependent view
//
// The result is a pure function of rs. It panics if views were built from a
// different graph.
func CompileViews(rs *supercluster.RootedSupercluster, views *analysis.Views) ConditionMap {
	nodes := rs.Graph.Nodes()
	cm := make(ConditionMap, len(nodes))
	for _, n := range nodes {
		if rs.IsRoot(n.ID) {
			cm[n.ID] = nil
			continue
		}
		cm[n.ID] = compileNode(n.ID, views)
	}
	return cm
}

func compileNode(id supercluster.NodeID, views *analysis.Views) *UnlockingCondition {
	dependents := views.Dependent.Reachable(id)
	targets := make(map[supercluster.NodeID]struct{}, len(dependents)+1)
	targets[id] = struct{}{}
	for _, d := range dependents {
		targets[d] = struct{}{}
	}

	allOf := views.Dependency.Reachable(id)
	oneOf := views.Motivation.MotivatorsOf(targets)
	if allOf == nil {
		allOf = []supercluster.NodeID{}
	}
	if oneOf == nil {
		oneOf = []supercluster.NodeID{}
	}
	return &UnlockingCondition{AllOf: allOf, OneOf: oneOf}
}
