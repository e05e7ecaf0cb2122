// Package io provides the YAML and JSON document form of a rooted
// supercluster.
//
// # Document Format
//
// The document lists nodes in insertion order, edges grouped by type and the
// root set:
//
//	nodes:
//	  - id: git__basics
//	    title: Basics
//	  - id: git__branches
//	    title: Branches
//	all_type_edges:
//	  - start_id: git__basics
//	    end_id: git__branches
//	any_type_edges:
//	  - start_id: git__teamwork
//	    end_id: git__branches
//	roots:
//	  - git__basics
//
// The edge and root sections are omitted when empty. Root IDs are written
// sorted so the output is stable regardless of how the roots were added.
//
// The same shape, in either YAML or JSON, is used for the rooted_supercluster
// field of archive payloads.
//
// # Export
//
// Use [WriteGraphYAML] to write to any io.Writer, or [ExportGraphYAML] to
// write a file. [MarshalGraphYAML] returns the bytes directly.
//
// # Import
//
// Use [ReadGraphYAML] or [ReadGraphJSON] to read from an io.Reader, or
// [ImportGraph] to read a file, picking the format from its extension.
// Imported graphs are validated: node IDs must parse and be unique, edges
// must reference known nodes and every root must be a node.
package io
