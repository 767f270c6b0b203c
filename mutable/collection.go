package mutable

// parentLink identifies where a collection is anchored inside its parent,
// so markMutated can propagate without the parent needing to scan for it.
type parentLink struct {
	array *MArray
	index int
	dict  *MDict
	key   string
}

// collection is the shared state every MArray/MDict embeds: the link back
// to whatever holds it, the document context, and the mutated flag that is
// set once and propagated up on first edit (spec.md §4.7).
type collection struct {
	parent    parentLink
	hasParent bool
	ctx       *Context
	isMutable bool
	mutated   bool
}

// markMutated marks this collection (and, transitively, every ancestor)
// dirty. It is a no-op past the first call at any given node, so repeated
// edits to the same subtree cost O(depth) only once.
func (c *collection) markMutated() {
	if c.mutated {
		return
	}
	c.mutated = true
	if c.hasParent {
		if c.parent.array != nil {
			c.parent.array.markMutated()
		} else if c.parent.dict != nil {
			c.parent.dict.markMutated()
		}
	}
}

// IsMutated reports whether this collection or any descendant was edited.
func (c *collection) IsMutated() bool { return c.mutated }
