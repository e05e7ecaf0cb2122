package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
)

// FS reads from and writes to the local filesystem.
type FS struct {
	// Root is the directory relative write paths are resolved against.
	Root string
	// Base resolves relative read paths. Empty means the working directory.
	Base string
}

// NewFS returns an FS writing under root.
func NewFS(root string) *FS {
	return &FS{Root: root}
}

// ReadBytes reads the file at path.
func (f *FS) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) && f.Base != "" {
		path = filepath.Join(f.Base, path)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteBytes writes content to Root/relativePath, creating parent
// directories as needed. Files are created with mode 0644.
func (f *FS) WriteBytes(ctx context.Context, relativePath string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errors.ValidatePath(relativePath); err != nil {
		return err
	}
	path := filepath.Join(f.Root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
