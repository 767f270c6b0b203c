// Package slice provides Fleece's two byte-buffer primitives: Slice, a
// non-owning (ptr,len) view, and AllocSlice, a reference-counted owning
// buffer. Go's []byte already carries a pointer and length, so Slice is a
// thin named type adding the hashing/comparison vocabulary spec.md §4.1
// asks for; AllocSlice adds explicit, deterministic refcounting on top of
// it for the cases (Doc ownership, encoder output) where a buffer's
// lifetime must be tracked independently of the garbage collector's view
// of reachability — grounded on the teacher's zero-copy-over-[]byte
// philosophy (hive/walker's "zero-copy cell access throughout").
package slice

import (
	"bytes"
	"hash/fnv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slice is a borrowed, non-owning view over bytes. The zero value is a null
// slice, distinct from an empty-but-non-null slice (mirrors C Fleece's
// slice.hh "null vs. empty" distinction, useful when an empty string must
// be told apart from "no value").
type Slice struct {
	data []byte
	null bool
}

// New wraps b as a non-null Slice (b may be nil only if explicitly empty).
func New(b []byte) Slice { return Slice{data: b} }

// Null returns the null Slice.
func Null() Slice { return Slice{null: true} }

// IsNull reports whether s is the null slice.
func (s Slice) IsNull() bool { return s.null }

// Bytes returns the underlying bytes (nil for a null slice).
func (s Slice) Bytes() []byte { return s.data }

// Len returns the byte length (0 for a null slice).
func (s Slice) Len() int { return len(s.data) }

// String returns the bytes reinterpreted as a string (no copy semantics
// implied beyond what Go's string([]byte) conversion already does).
func (s Slice) String() string { return string(s.data) }

// Hash returns a 32-bit FNV-1a content hash, suitable as a container key
// (spec.md §4.1).
func (s Slice) Hash() uint32 {
	h := fnv.New32a()
	_, _ = h.Write(s.data)
	return h.Sum32()
}

// Compare performs a memcmp-with-length-tiebreak comparison: shorter
// byte-equal prefixes sort first.
func (s Slice) Compare(other Slice) int {
	return bytes.Compare(s.data, other.data)
}

// Equal reports byte-for-byte equality.
func (s Slice) Equal(other Slice) bool {
	return s.null == other.null && bytes.Equal(s.data, other.data)
}

var foldCaser = cases.Fold()

// EqualFold reports whether s and other are equal under Unicode case
// folding, the "separate lowercase-folded comparator for ASCII-case-
// insensitive keys" spec.md §4.1 calls for. Folding via golang.org/x/text
// handles the full Unicode case-folding table, a superset of the spec's
// minimum ASCII requirement.
func (s Slice) EqualFold(other Slice) bool {
	return foldCaser.String(s.String()) == foldCaser.String(other.String())
}
