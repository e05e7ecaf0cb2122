// Package supercluster provides the graph model for learning-path
// superclusters.
//
// # Overview
//
// A supercluster is the complete prerequisite graph spanning all learning
// units of one course archive. Nodes are learning units identified by a
// [NodeID]; edges are typed prerequisite relations:
//
//   - [All]: a hard prerequisite. The target cannot be unlocked before the
//     source is completed.
//   - [AtLeastOne]: a soft prerequisite. The source is one of several
//     alternative motivators for the target.
//
// A node pair may carry edges of both types at once.
//
// # Storage
//
// [Graph] is an arena: nodes live in a slice in insertion order and are
// addressed by stable [NodeIndex] handles. Edges reference handles, and
// every node keeps its outgoing and incoming edge handles so neighbor
// queries never scan the full edge list.
//
//	g := supercluster.New()
//	_ = g.AddNode(supercluster.Node{ID: supercluster.MustParseNodeID("math__sets"), Title: "Sets"})
//	_ = g.AddNode(supercluster.Node{ID: supercluster.MustParseNodeID("math__functions"), Title: "Functions"})
//	_ = g.AddEdge(supercluster.MustParseNodeID("math__sets"), supercluster.MustParseNodeID("math__functions"), supercluster.All)
//
// # Roots
//
// [RootedSupercluster] pairs a graph with the set of root nodes, which are
// always unlocked. [RootedSupercluster.Validate] checks that every root is
// a node of the graph; edge endpoints and ID uniqueness are enforced by
// [Graph.AddNode] and [Graph.AddEdge].
//
// # Identifiers
//
// [NodeID] has a single canonical text encoding, "namespace__local_id",
// used everywhere an identifier is serialized (map keys, list entries,
// YAML and JSON documents).
package supercluster
