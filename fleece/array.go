package fleece

import "github.com/gofleece/fleece/internal/format"

// Array is a read-only view over a Fleece array value's slot table. It is
// a thin wrapper over Value; Count and Get decode the slot table lazily on
// each call rather than materializing a Go slice (spec.md §3.4's "zero
// parse" guarantee).
//
// Grounded on the teacher's hive.Array (hive/nk.go): an index type layered
// directly over the same borrowed byte slice as its owning value.
type Array struct {
	v Value
}

// Count returns the number of elements in the array.
func (a Array) Count() int {
	count, _, ok := containerHeader(a.v)
	if !ok {
		return 0
	}
	return count
}

// Get returns the element at index i, or Undefined if i is out of range.
func (a Array) Get(i int) Value {
	count, wide, ok := containerHeader(a.v)
	if !ok || i < 0 || i >= count {
		return Undefined
	}
	width := format.SlotWidth(wide)
	slotAddr := a.v.addr + format.HeaderSize + i*width
	return slotValue(a.v.buf, a.v.doc, slotAddr, width)
}

// ArrayIterator walks an Array's elements in order.
type ArrayIterator struct {
	a     Array
	index int
}

// Iterator returns a fresh ArrayIterator positioned before the first element.
func (a Array) Iterator() *ArrayIterator { return &ArrayIterator{a: a, index: -1} }

// Next advances the iterator and reports whether a Value is now available.
func (it *ArrayIterator) Next() bool {
	it.index++
	return it.index < it.a.Count()
}

// Value returns the element at the iterator's current position.
func (it *ArrayIterator) Value() Value { return it.a.Get(it.index) }

// Index returns the iterator's current position.
func (it *ArrayIterator) Index() int { return it.index }

// ToSlice materializes the array as a []Value. Intended for small arrays or
// call sites that need random access into a native Go slice; large arrays
// should prefer Get/Iterator to preserve the zero-copy property.
func (a Array) ToSlice() []Value {
	n := a.Count()
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		out[i] = a.Get(i)
	}
	return out
}
