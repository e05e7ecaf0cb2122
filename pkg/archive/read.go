package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
)

// EntryInfo describes one entry of a finished archive.
type EntryInfo struct {
	Name   string
	Size   uint64
	Mode   os.FileMode
	Stored bool
}

// List returns the entries of an archive in file order.
func List(data []byte) ([]EntryInfo, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	out := make([]EntryInfo, len(zr.File))
	for i, f := range zr.File {
		out[i] = EntryInfo{
			Name:   f.Name,
			Size:   f.UncompressedSize64,
			Mode:   f.Mode(),
			Stored: f.Method == zip.Store,
		}
	}
	return out, nil
}

// ReadEntry returns the content of the named entry.
func ReadEntry(data []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
