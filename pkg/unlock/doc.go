// Package unlock compiles unlocking conditions for the nodes of a rooted
// supercluster.
//
// A node's unlocking condition has two parts:
//
//   - AllOf: every node the node transitively depends on through All edges.
//     All of them must be completed.
//   - OneOf: every motivator whose AtLeastOne edges point at the node or at
//     one of the nodes that transitively depend on it. If the set is
//     non-empty, at least one of them must be completed.
//
// Roots have no condition at all and are represented by a nil entry in the
// ConditionMap.
//
// # Usage
//
//	cm, err := unlock.Compile(rs)
//	if err != nil {
//	    return err // wraps analysis.ErrCycle
//	}
//	if err := unlock.WriteJSON(w, cm); err != nil {
//	    return err
//	}
//
// When the caller already holds the views of rs, [CompileViews] skips
// rebuilding them.
package unlock
