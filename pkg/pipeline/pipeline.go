// Package pipeline provides the archive-building entry points.
//
// This package implements the complete validate → compile → assemble →
// write pipeline used by the CLI and the HTTP server. By centralizing this
// logic, every entry point produces byte-identical archives for the same
// payload.
//
// # Architecture
//
// A run consists of these steps, each of which aborts the run on failure:
//
//  1. Validate: check the payload and the rooted supercluster it carries
//  2. Compile: build the dependency, dependent and motivation views and
//     derive every node's unlocking condition
//  3. Assemble: write the graph document, every mapped artifact and the
//     condition map into an in-memory zip archive
//  4. Write: hand the archive to the host under ArchiveName
//
// No archive is written unless every earlier step succeeded.
//
// # Usage
//
// Create a Runner and process a payload:
//
//	runner := pipeline.NewRunner(host.NewFS(outDir), logger)
//	result, err := runner.ProcessPaths(ctx, payload)
//	if err != nil {
//	    os.Exit(errors.StatusCode(err))
//	}
//	fmt.Println(result.Digest)
//
// Or use the package-level entry points, which take their defaults from
// the global observability hooks and discard logs:
//
//	schema := pipeline.GetParamsSchema()
//	out, err := pipeline.ProcessPaths(ctx, h, payload)
package pipeline

import (
	"time"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/archive"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/unlock"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultArchiveName is the host-relative path the archive is written to.
	DefaultArchiveName = "archive.zip"

	// DefaultMemoSize bounds how many distinct artifacts one run keeps in
	// memory for repeated mappings.
	DefaultMemoSize = 256
)

// =============================================================================
// Entry Point Types
// =============================================================================

// ParamsSchema describes the options a pipeline step accepts. The archive
// builder accepts none, so the schema is always empty.
type ParamsSchema struct {
	Schema map[string]any `json:"schema" yaml:"schema"`
}

// GetParamsSchema returns the empty options schema.
func GetParamsSchema() ParamsSchema {
	return ParamsSchema{Schema: map[string]any{}}
}

// ProcessingResult is returned to the caller of ProcessPaths on success. It
// echoes the payload's artifact mapping.
type ProcessingResult struct {
	HashSet []archive.ArtifactMapping `json:"hash_set" yaml:"hash_set"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	ProcessingResult

	// RunID identifies the run in logs and hook events.
	RunID string

	// ArchiveName is where the archive was written on the host.
	ArchiveName string

	// Archive holds the archive bytes.
	Archive []byte

	// Digest is the BLAKE3-256 hex digest of Archive.
	Digest string

	// Conditions is the compiled condition map.
	Conditions unlock.ConditionMap

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	EdgeCount      int
	RootCount      int
	ConditionCount int
	ArtifactCount  int
	ArchiveSize    int
	MemoHits       int64
	CompileTime    time.Duration
	ArchiveTime    time.Duration
	WriteTime      time.Duration
	Duration       time.Duration
}
