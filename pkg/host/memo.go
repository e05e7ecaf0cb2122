package host

import (
	"context"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize is the number of distinct paths a Memo keeps.
const DefaultMemoSize = 256

// Memo wraps a Reader so that each path is read from the host at most once
// while it stays in the cache. Errors are not cached.
//
// A Memo is meant to live for a single invocation; it never observes
// changes made on the host after a path was first read.
type Memo struct {
	reader Reader
	cache  *lru.Cache[string, []byte]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo wraps r with an LRU holding up to size paths. A non-positive size
// selects DefaultMemoSize.
func NewMemo(r Reader, size int) *Memo {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		// lru.New only fails for non-positive sizes
		panic(err)
	}
	return &Memo{reader: r, cache: cache}
}

// ReadBytes returns the cached content for path or reads it through.
func (m *Memo) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		m.hits.Add(1)
		return slices.Clone(data), nil
	}
	m.misses.Add(1)
	data, err := m.reader.ReadBytes(ctx, path)
	if err != nil {
		return nil, err
	}
	m.cache.Add(path, slices.Clone(data))
	return data, nil
}

// Contains reports whether path is currently cached.
func (m *Memo) Contains(path string) bool { return m.cache.Contains(path) }

// Hits returns how many reads were served from the cache.
func (m *Memo) Hits() int64 { return m.hits.Load() }

// Misses returns how many reads went to the wrapped Reader.
func (m *Memo) Misses() int64 { return m.misses.Load() }
