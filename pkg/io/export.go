package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// WriteGraphYAML encodes rs as a YAML document with two-space indentation
// and writes it to w. The output can be re-imported with [ReadGraphYAML].
func WriteGraphYAML(w io.Writer, rs *supercluster.RootedSupercluster) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(rs)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalGraphYAML is [WriteGraphYAML] into a byte slice.
func MarshalGraphYAML(rs *supercluster.RootedSupercluster) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraphYAML(&buf, rs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportGraphYAML writes rs to a YAML file at path.
func ExportGraphYAML(rs *supercluster.RootedSupercluster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraphYAML(f, rs)
}
