// Package analysis derives the dependency views that unlocking conditions
// are compiled from.
//
// # Overview
//
// A supercluster mixes two edge types in one graph. Reachability questions
// only make sense per type and per direction, so this package builds
// filtered subgraphs and answers transitive queries over them:
//
//   - [Filter] keeps every node, renumbers it into a dense index space, and
//     keeps only edges of one type in one [Direction]. The subgraph records
//     the NodeID ↔ index tables needed to map results back.
//   - [TopologicalOrder] orders a subgraph with Kahn's algorithm.
//   - [NewClosure] computes exact multi-hop reachability with a
//     reverse-topological sweep. Rows of the closure are indexed by
//     topological position, not by subgraph index; the [IndexMap] bridges
//     the two numberings.
//
// # Views
//
// [BuildViews] assembles the three views of a rooted supercluster:
//
//   - Dependency: All edges from dependent to dependency. Reachable(n) is
//     every hard prerequisite of n, transitively.
//   - Dependent: All edges from dependency to dependent. Reachable(n) is
//     everything n transitively unlocks.
//   - Motivation: AtLeastOne edges from motivator to motivated node.
//
// Views are recomputed per invocation and never cached.
//
// # Cycles
//
// The All-edge subgraph must be acyclic. Cycles are not searched for
// explicitly; Kahn's algorithm simply cannot order them and [NewClosure]
// reports [ErrCycle].
package analysis
