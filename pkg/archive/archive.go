package archive

import (
	"bytes"
	"context"
	goerrors "errors"
	"fmt"
	"slices"

	"github.com/klauspost/compress/zip"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/host"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/io"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/unlock"
)

// Entry names of the generated files.
const (
	GraphEntry      = "serialized_complete_graph.yaml"
	ConditionsEntry = "unlocking_conditions.json"
)

// EntryMode is the unix mode of every entry.
const EntryMode = 0o755

var (
	// ErrFinished is returned when adding to an Assembler after Finish.
	ErrFinished = goerrors.New("archive already finished")
	// ErrDuplicateEntry is returned when two entries resolve to the same name.
	ErrDuplicateEntry = goerrors.New("duplicate archive entry")
)

// ArtifactMapping places the file at LocalFile into the archive directory
// RootRelativeTargetDir, keeping its base name.
type ArtifactMapping struct {
	LocalFile             string `json:"local_file" yaml:"local_file"`
	RootRelativeTargetDir string `json:"root_relative_target_dir" yaml:"root_relative_target_dir"`
}

// EntryName resolves the archive entry name of m. It returns an
// INVALID_PATH error when LocalFile has no file name or the target
// directory escapes the archive root.
func (m ArtifactMapping) EntryName() (string, error) {
	base, err := errors.ArtifactBaseName(m.LocalFile)
	if err != nil {
		return "", err
	}
	dir, err := errors.NormalizeTargetDir(m.RootRelativeTargetDir)
	if err != nil {
		return "", err
	}
	return errors.ArchiveEntryName(dir, base), nil
}

// Assembler builds an archive in memory.
type Assembler struct {
	buf      bytes.Buffer
	zw       *zip.Writer
	names    map[string]struct{}
	order    []string
	finished bool
}

// New returns an empty Assembler.
func New() *Assembler {
	a := &Assembler{names: make(map[string]struct{})}
	a.zw = zip.NewWriter(&a.buf)
	return a
}

// Add stores content under name.
func (a *Assembler) Add(name string, content []byte) error {
	if a.finished {
		return ErrFinished
	}
	if _, dup := a.names[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}

	hdr := &zip.FileHeader{Name: name, Method: zip.Store}
	hdr.SetMode(EntryMode)
	w, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	a.names[name] = struct{}{}
	a.order = append(a.order, name)
	return nil
}

// AddGraph stores the YAML document of rs as GraphEntry.
func (a *Assembler) AddGraph(rs *supercluster.RootedSupercluster) error {
	data, err := io.MarshalGraphYAML(rs)
	if err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}
	return a.Add(GraphEntry, data)
}

// AddConditions stores the JSON rendering of cm as ConditionsEntry.
func (a *Assembler) AddConditions(cm unlock.ConditionMap) error {
	data, err := unlock.MarshalIndent(cm)
	if err != nil {
		return err
	}
	return a.Add(ConditionsEntry, data)
}

// AddArtifacts reads every mapped file through r and stores it under its
// resolved entry name, in mapping order. Entry names are resolved for all
// mappings before anything is read, so a malformed mapping fails fast.
//
// Path errors are INVALID_PATH, read errors are READ_FAILED.
func (a *Assembler) AddArtifacts(ctx context.Context, r host.Reader, mappings []ArtifactMapping) error {
	names := make([]string, len(mappings))
	for i, m := range mappings {
		name, err := m.EntryName()
		if err != nil {
			return err
		}
		names[i] = name
	}

	for i, m := range mappings {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := r.ReadBytes(ctx, m.LocalFile)
		if err != nil {
			return errors.Wrap(errors.ErrCodeReadFailed, err, "read artifact %s", m.LocalFile)
		}
		if err := a.Add(names[i], data); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the names added so far, in order.
func (a *Assembler) Entries() []string {
	return slices.Clone(a.order)
}

// Finish closes the archive and returns its bytes. The Assembler cannot be
// used afterwards.
func (a *Assembler) Finish() ([]byte, error) {
	if a.finished {
		return nil, ErrFinished
	}
	a.finished = true
	if err := a.zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return a.buf.Bytes(), nil
}
