package supercluster

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// separator joins the namespace and local part of a canonical NodeID.
const separator = "__"

// NodeID identifies a learning unit. IDs are comparable and can be used as
// map keys. The zero value is not a valid ID.
type NodeID struct {
	Namespace string // Cluster the unit belongs to (may be empty)
	LocalID   string // Identifier within the cluster
}

// ParseNodeID parses the canonical encoding produced by [NodeID.String].
// The input is split on the first "__"; without a separator the whole
// string is the local ID. Returns ErrInvalidNodeID if the local part is empty.
func ParseNodeID(s string) (NodeID, error) {
	ns, local, found := strings.Cut(s, separator)
	if !found {
		ns, local = "", s
	}
	id := NodeID{Namespace: ns, LocalID: local}
	if !id.Valid() {
		return NodeID{}, fmt.Errorf("%w: %q", ErrInvalidNodeID, s)
	}
	return id, nil
}

// MustParseNodeID is like ParseNodeID but panics on error.
// Intended for tests and literals.
func MustParseNodeID(s string) NodeID {
	id, err := ParseNodeID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Valid reports whether the ID has a non-empty local part and its canonical
// encoding parses back to the same ID. This rules out IDs such as
// {LocalID: "a__b"}, which would share the encoding of
// {Namespace: "a", LocalID: "b"}.
func (id NodeID) Valid() bool {
	if id.LocalID == "" {
		return false
	}
	ns, local, found := strings.Cut(id.String(), separator)
	if !found {
		return id.Namespace == ""
	}
	return ns == id.Namespace && local == id.LocalID
}

// String returns the canonical encoding "namespace__local_id", or just the
// local ID when the namespace is empty.
func (id NodeID) String() string {
	if id.Namespace == "" {
		return id.LocalID
	}
	return id.Namespace + separator + id.LocalID
}

// MarshalText implements encoding.TextMarshaler using the canonical encoding.
func (id NodeID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, ErrInvalidNodeID
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders IDs by their canonical encoding. It returns -1, 0 or +1.
func Compare(a, b NodeID) int {
	return cmp.Compare(a.String(), b.String())
}

// SortIDs sorts ids in place by canonical encoding and returns the slice.
func SortIDs(ids []NodeID) []NodeID {
	slices.SortFunc(ids, Compare)
	return ids
}

// IDStrings renders ids through the canonical encoding.
func IDStrings(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
