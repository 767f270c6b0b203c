package mutable

import "sync/atomic"

// Context is the shared, refcounted anchor for a mutable tree: every
// MArray/MDict descended from the same root holds a pointer to the same
// Context, which keeps the backing document's bytes alive for as long as
// any mutable view into it exists (spec.md §4.7's MCollection.ctx).
type Context struct {
	refs atomic.Int32
	base []byte
}

// NewContext returns a Context anchoring base with one reference held.
func NewContext(base []byte) *Context {
	c := &Context{base: base}
	c.refs.Store(1)
	return c
}

// Retain increments the reference count and returns c for chaining.
func (c *Context) Retain() *Context {
	c.refs.Add(1)
	return c
}

// Release decrements the reference count.
func (c *Context) Release() {
	c.refs.Add(-1)
}

// Base returns the document bytes the context anchors.
func (c *Context) Base() []byte { return c.base }
