package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// ReadGraphYAML decodes a YAML document from r into a validated rooted
// supercluster.
//
// ReadGraphYAML returns an error if:
//   - The YAML is malformed
//   - A node ID does not parse or is duplicated
//   - An edge references an unknown node
//   - A root is not a node of the graph
//
// Errors are wrapped with context describing which node, edge or root
// caused the problem. Use errors.Is to check for the supercluster sentinel
// errors. ReadGraphYAML does not close r.
func ReadGraphYAML(r io.Reader) (*supercluster.RootedSupercluster, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Rooted()
}

// ReadGraphJSON is the JSON counterpart of [ReadGraphYAML].
func ReadGraphJSON(r io.Reader) (*supercluster.RootedSupercluster, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Rooted()
}

// ImportGraph reads the graph document at path. Files ending in .json are
// decoded as JSON, everything else as YAML.
func ImportGraph(path string) (*supercluster.RootedSupercluster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if IsJSON(path) {
		return ReadGraphJSON(f)
	}
	return ReadGraphYAML(f)
}

// IsJSON reports whether path names a JSON document by its extension.
func IsJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
