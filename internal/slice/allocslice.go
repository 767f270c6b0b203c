package slice

import (
	"errors"
	"sync/atomic"
)

// ErrAlloc is returned when a buffer cannot be allocated or resized.
var ErrAlloc = errors.New("fleece: allocation failed")

// header is the shared, ref-counted backing store for an AllocSlice. All
// copies of the same AllocSlice point at the same header; retaining bumps
// the counter, releasing decrements it, and the last release drops the
// header's reference to the buffer so further reads through any lingering
// copy are detectably invalid rather than silently reading stale memory
// still held alive elsewhere by the Go runtime.
type header struct {
	refs atomic.Int32
	buf  []byte
}

// AllocSlice is an owning, reference-counted byte buffer (spec.md §4.1).
// The zero value is an unallocated AllocSlice; call NewAllocSlice to create
// one. AllocSlice is a small value type (a pointer to a shared header) so
// it is cheap to copy — every copy must be paired with Retain/Release.
type AllocSlice struct {
	h *header
}

// NewAllocSlice allocates an AllocSlice of exactly n bytes with an initial
// reference count of 1.
func NewAllocSlice(n int) (AllocSlice, error) {
	if n < 0 {
		return AllocSlice{}, ErrAlloc
	}
	h := &header{buf: make([]byte, n)}
	h.refs.Store(1)
	return AllocSlice{h: h}, nil
}

// FromBytes wraps an existing buffer (taking ownership of it) with an
// initial reference count of 1.
func FromBytes(b []byte) AllocSlice {
	h := &header{buf: b}
	h.refs.Store(1)
	return AllocSlice{h: h}
}

// Valid reports whether the AllocSlice still references a live buffer.
func (a AllocSlice) Valid() bool { return a.h != nil && a.h.refs.Load() > 0 }

// Bytes returns the current buffer contents, or nil if the slice was never
// allocated or has been fully released.
func (a AllocSlice) Bytes() []byte {
	if !a.Valid() {
		return nil
	}
	return a.h.buf
}

// Len reports the current buffer length.
func (a AllocSlice) Len() int { return len(a.Bytes()) }

// Slice returns a borrowed, non-owning Slice view over the current
// contents.
func (a AllocSlice) Slice() Slice {
	if !a.Valid() {
		return Null()
	}
	return New(a.h.buf)
}

// Retain increments the reference count and returns the same AllocSlice,
// so callers can write `kept := a.Retain()` at a store site.
func (a AllocSlice) Retain() AllocSlice {
	if a.h != nil {
		a.h.refs.Add(1)
	}
	return a
}

// Release decrements the reference count. The underlying buffer becomes
// unreachable through this (and every other) copy once the count reaches
// zero.
func (a AllocSlice) Release() {
	if a.h == nil {
		return
	}
	if a.h.refs.Add(-1) == 0 {
		a.h.buf = nil
	}
}

// RefCount returns the current reference count (0 once fully released).
func (a AllocSlice) RefCount() int32 {
	if a.h == nil {
		return 0
	}
	return a.h.refs.Load()
}

// Resize grows or shrinks the buffer in place when possible, reallocating
// (the address may change) when not. Existing content up to min(old,new)
// length is preserved.
func (a *AllocSlice) Resize(n int) error {
	if !a.Valid() {
		return ErrAlloc
	}
	if n < 0 {
		return ErrAlloc
	}
	old := a.h.buf
	if n <= cap(old) {
		a.h.buf = old[:n]
		return nil
	}
	grown := make([]byte, n)
	copy(grown, old)
	a.h.buf = grown
	return nil
}

// Append appends src to the buffer, growing as needed. src is copied before
// any reallocation happens, so it may safely alias the AllocSlice's own
// current contents (e.g. appending a suffix of itself).
func (a *AllocSlice) Append(src []byte) error {
	if !a.Valid() {
		return ErrAlloc
	}
	if len(src) == 0 {
		return nil
	}
	// Copy src first: if src aliases a.h.buf and growth reallocates, the
	// aliasing slice would otherwise observe post-copy garbage once the
	// old backing array is abandoned mid-append.
	tmp := make([]byte, len(src))
	copy(tmp, src)
	a.h.buf = append(a.h.buf, tmp...)
	return nil
}
