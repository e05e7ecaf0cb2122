package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdio "io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/archive"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/io"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

// Payload formats accepted by ReadPayload.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ArchivePayload is the input of ProcessPaths.
type ArchivePayload struct {
	RootedSupercluster *supercluster.RootedSupercluster
	ArtifactMapping    []archive.ArtifactMapping
}

type payloadDoc struct {
	RootedSupercluster io.Document               `json:"rooted_supercluster" yaml:"rooted_supercluster"`
	ArtifactMapping    []archive.ArtifactMapping `json:"artifact_mapping" yaml:"artifact_mapping"`
}

func (d payloadDoc) payload() (ArchivePayload, error) {
	rs, err := d.RootedSupercluster.Rooted()
	if err != nil {
		return ArchivePayload{}, fmt.Errorf("rooted_supercluster: %w", err)
	}
	return ArchivePayload{RootedSupercluster: rs, ArtifactMapping: d.ArtifactMapping}, nil
}

func (p ArchivePayload) doc() payloadDoc {
	d := payloadDoc{ArtifactMapping: p.ArtifactMapping}
	if d.ArtifactMapping == nil {
		d.ArtifactMapping = []archive.ArtifactMapping{}
	}
	if p.RootedSupercluster != nil {
		d.RootedSupercluster = io.NewDocument(p.RootedSupercluster)
	}
	return d
}

// MarshalJSON renders the payload in its wire form.
func (p ArchivePayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.doc())
}

// UnmarshalJSON decodes and validates the wire form.
func (p *ArchivePayload) UnmarshalJSON(data []byte) error {
	var d payloadDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	out, err := d.payload()
	if err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalYAML renders the payload in its wire form.
func (p ArchivePayload) MarshalYAML() (any, error) {
	return p.doc(), nil
}

// UnmarshalYAML decodes and validates the wire form.
func (p *ArchivePayload) UnmarshalYAML(value *yaml.Node) error {
	var d payloadDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	out, err := d.payload()
	if err != nil {
		return err
	}
	*p = out
	return nil
}

// ReadPayload decodes a payload in the given format ("json" or "yaml").
// Any failure is an INVALID_INPUT error.
func ReadPayload(r stdio.Reader, format string) (*ArchivePayload, error) {
	var p ArchivePayload
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode payload")
		}
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode payload")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported payload format %q (must be json or yaml)", format)
	}
	return &p, nil
}

// ImportPayload reads the payload file at path, picking the format from
// its extension.
func ImportPayload(path string) (*ArchivePayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "read payload %s", path)
	}
	format := FormatYAML
	if io.IsJSON(path) {
		format = FormatJSON
	}
	return ReadPayload(bytes.NewReader(data), format)
}

// Validate checks that the payload carries a valid rooted supercluster.
func (p *ArchivePayload) Validate() error {
	if p == nil || p.RootedSupercluster == nil {
		return errors.New(errors.ErrCodeInvalidInput, "payload has no rooted_supercluster")
	}
	if err := p.RootedSupercluster.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid rooted_supercluster")
	}
	return nil
}
