package host

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
)

// Memory is a Host backed by two maps: one serving reads by absolute path
// and one collecting writes by relative path. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	files   map[string][]byte
	written map[string][]byte
}

// NewMemory returns a Memory serving the given files.
func NewMemory(files map[string][]byte) *Memory {
	m := &Memory{
		files:   make(map[string][]byte, len(files)),
		written: make(map[string][]byte),
	}
	for k, v := range files {
		m.files[k] = slices.Clone(v)
	}
	return m
}

// Put makes content readable at path.
func (m *Memory) Put(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = slices.Clone(content)
}

// ReadBytes returns a copy of the content stored at path.
func (m *Memory) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return slices.Clone(data), nil
}

// WriteBytes records content under relativePath.
func (m *Memory) WriteBytes(ctx context.Context, relativePath string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errors.ValidatePath(relativePath); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[relativePath] = slices.Clone(content)
	return nil
}

// Written returns what was last written to relativePath.
func (m *Memory) Written(relativePath string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.written[relativePath]
	return data, ok
}

// WrittenPaths returns every written path, sorted.
func (m *Memory) WrittenPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.written))
}
