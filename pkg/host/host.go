// Package host defines the capability interface through which the archive
// builder reads artifacts and persists its output, along with the backends
// that implement it.
//
// Reads take absolute paths: artifacts may live anywhere the host can see.
// Writes take paths relative to the host's output root.
//
// Backends:
//   - [FS]: the local filesystem
//   - [Memory]: an in-memory map, used by tests and the HTTP server
//   - [S3]: an S3-compatible object store via minio-go
//   - [Redis]: string keys in a Redis instance
//
// [Memo] wraps any [Reader] with a small LRU so repeated reads of the same
// path within one invocation hit the host once.
package host

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a read path does not exist on the host.
var ErrNotFound = errors.New("host: not found")

// Reader reads the full contents of a file addressed by absolute path.
type Reader interface {
	ReadBytes(ctx context.Context, absolutePath string) ([]byte, error)
}

// Writer persists content at a path relative to the host's output root.
type Writer interface {
	WriteBytes(ctx context.Context, relativePath string, content []byte) error
}

// Host is the full capability set the archive builder needs.
type Host interface {
	Reader
	Writer
}

// Split pairs an independent Reader and Writer into a Host.
type Split struct {
	Reader
	Writer
}
