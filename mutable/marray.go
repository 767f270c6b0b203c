package mutable

import "github.com/gofleece/fleece/fleece"

// MArray overlays a vector of MValue slots, the same length as the backing
// immutable array, over that array (spec.md §4.7's MArray). A slot starts
// empty, meaning "read through to the backing element".
type MArray struct {
	collection
	backing fleece.Array
	slots   []MValue
}

// NewMArray wraps backing for editing, anchored to ctx.
func NewMArray(backing fleece.Array, ctx *Context) *MArray {
	n := backing.Count()
	a := &MArray{backing: backing, slots: make([]MValue, n)}
	a.ctx = ctx
	a.isMutable = true
	return a
}

// NewMArrayFromValue is a convenience that extracts v's Array view (or an
// empty backing if v is not an array) before wrapping it.
func NewMArrayFromValue(v fleece.Value, ctx *Context) *MArray {
	arr, _ := v.AsArray()
	return NewMArray(arr, ctx)
}

// Count returns the current number of elements.
func (a *MArray) Count() int { return len(a.slots) }

// Get returns the element at index i.
func (a *MArray) Get(i int) Value {
	if i < 0 || i >= len(a.slots) {
		return Null()
	}
	if a.slots[i].IsEmpty() {
		return fromImmutable(a.backing.Get(i))
	}
	if a.slots[i].bound {
		return fromImmutable(a.slots[i].imm)
	}
	return a.slots[i].nat
}

// GetMutableArray returns the element at index i as a nested *MArray,
// materializing it from the backing value on first access so further edits
// to it are tracked and propagate to this array's mutated flag.
func (a *MArray) GetMutableArray(i int) *MArray {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	if !a.slots[i].IsEmpty() && a.slots[i].nat.kind == KindArray {
		return a.slots[i].nat.arr
	}
	src := a.backing.Get(i)
	if a.slots[i].bound {
		src = a.slots[i].imm
	}
	child := NewMArrayFromValue(src, a.ctx)
	child.hasParent = true
	child.parent = parentLink{array: a, index: i}
	a.slots[i] = FromNative(ArrayValue(child))
	return child
}

// GetMutableDict returns the element at index i as a nested *MDict, with
// the same materialize-on-first-access behavior as GetMutableArray.
func (a *MArray) GetMutableDict(i int) *MDict {
	if i < 0 || i >= len(a.slots) {
		return nil
	}
	if !a.slots[i].IsEmpty() && a.slots[i].nat.kind == KindDict {
		return a.slots[i].nat.dict
	}
	src := a.backing.Get(i)
	if a.slots[i].bound {
		src = a.slots[i].imm
	}
	dict, _ := src.AsDict()
	child := NewMDict(dict, a.ctx)
	child.hasParent = true
	child.parent = parentLink{array: a, index: i}
	a.slots[i] = FromNative(DictValue(child))
	return child
}

// Set overwrites index i with v.
func (a *MArray) Set(i int, v Value) {
	if i < 0 || i >= len(a.slots) {
		return
	}
	a.slots[i] = FromNative(v)
	a.markMutated()
}

// materializeAll replaces every still-empty slot with its backing value,
// so subsequent index shifts from Insert/Remove stay meaningful.
func (a *MArray) materializeAll() {
	for i := range a.slots {
		if a.slots[i].IsEmpty() {
			a.slots[i] = FromImmutable(a.backing.Get(i))
		}
	}
}

// Insert splices v into the array at index i, shifting later elements up.
func (a *MArray) Insert(i int, v Value) {
	if i < 0 || i > len(a.slots) {
		return
	}
	a.materializeAll()
	a.slots = append(a.slots, MValue{})
	copy(a.slots[i+1:], a.slots[i:])
	a.slots[i] = FromNative(v)
	a.markMutated()
}

// Remove deletes the element at index i.
func (a *MArray) Remove(i int) {
	if i < 0 || i >= len(a.slots) {
		return
	}
	a.materializeAll()
	a.slots = append(a.slots[:i], a.slots[i+1:]...)
	a.markMutated()
}

// Clear empties the array.
func (a *MArray) Clear() {
	a.slots = nil
	a.markMutated()
}

// Slot returns the raw MValue at index i, used by the encoder when
// deciding whether to re-encode the backing element or the slot's own value.
func (a *MArray) Slot(i int) MValue { return a.slots[i] }
