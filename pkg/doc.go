// Package pkg provides the libraries behind lblp, the learning-path archive
// builder.
//
// # Overview
//
// A course is modelled as a rooted supercluster: a directed graph of
// topics connected by hard prerequisites (All edges) and motivations
// (AtLeastOne edges), plus the set of root topics that are available from
// the start. lblp derives an unlocking condition for every topic and
// packages the graph, the conditions and the course artifacts into a
// single zip archive.
//
// # Architecture
//
// The data flow of one build:
//
//	ArchivePayload (JSON/YAML)
//	         ↓
//	    [supercluster] (graph model + roots)
//	         ↓
//	    [analysis] (dependency, dependent and motivation views)
//	         ↓
//	    [unlock] (unlocking conditions)
//	         ↓
//	    [archive] (zip: graph YAML + artifacts + conditions JSON)
//	         ↓
//	    [host] (archive.zip written through the host backend)
//
// [pipeline] runs these steps and is shared by the CLI and the HTTP server.
//
// # Quick Start
//
//	payload, err := pipeline.ImportPayload("course.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(host.NewFS("out"), logger)
//	result, err := runner.ProcessPaths(ctx, payload)
//
// # Main Packages
//
// ## Domain Logic
//
// [supercluster] - Arena graph of namespaced node IDs with typed edges and
// the RootedSupercluster wrapper.
//
// [analysis] - Edge-type filtered subgraphs, topological order and
// transitive closures.
//
// [unlock] - Unlocking-condition compiler and its JSON document.
//
// ## Serialization & Packaging
//
// [io] - The graph document (YAML and JSON).
//
// [archive] - Deterministic zip assembly, entry listing and BLAKE3 digests.
//
// ## Infrastructure
//
// [host] - Host capability interface with filesystem, memory, S3 and Redis
// backends, and a read memo.
//
// [pipeline] - Entry points get_params_schema and process_paths.
//
// [config] - TOML, .env and environment configuration.
//
// [errors] - Code-tagged errors and process status codes.
//
// [observability] - Pipeline, cache and HTTP hooks.
//
// [render/nodelink] - Graphviz node-link diagrams.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/...
package pkg
