package mutable

import "github.com/gofleece/fleece/fleece"

// MDict overlays a map of overrides over a backing immutable dict: a
// lookup checks the override map first, then falls through to the
// backing dict, caching what it finds so the caller always observes the
// same object for a given key (spec.md §4.7's MDict).
type MDict struct {
	collection
	backing   fleece.Dict
	overrides map[string]MValue
	deleted   map[string]bool
	count     int
}

// NewMDict wraps backing for editing, anchored to ctx.
func NewMDict(backing fleece.Dict, ctx *Context) *MDict {
	d := &MDict{backing: backing, overrides: make(map[string]MValue), deleted: make(map[string]bool)}
	d.ctx = ctx
	d.isMutable = true
	d.count = backing.Count()
	return d
}

// Count returns the current number of entries.
func (d *MDict) Count() int { return d.count }

// Get returns the value for key, or the zero Value if absent.
func (d *MDict) Get(key string) Value {
	if d.deleted[key] {
		return Value{}
	}
	if mv, ok := d.overrides[key]; ok {
		if mv.bound {
			return fromImmutable(mv.imm)
		}
		return mv.nat
	}
	v := d.backing.Get(key)
	if v.IsUndefined() {
		return Value{}
	}
	d.overrides[key] = FromImmutable(v)
	return fromImmutable(v)
}

// Contains reports whether key currently resolves to a value.
func (d *MDict) Contains(key string) bool {
	if d.deleted[key] {
		return false
	}
	if _, ok := d.overrides[key]; ok {
		return true
	}
	return !d.backing.Get(key).IsUndefined()
}

// GetMutableArray returns key's value as a nested *MArray, materializing
// it from the backing value (or creating an empty one) on first access.
func (d *MDict) GetMutableArray(key string) *MArray {
	if mv, ok := d.overrides[key]; ok && !d.deleted[key] && mv.nat.kind == KindArray {
		return mv.nat.arr
	}
	arr, _ := d.backing.Get(key).AsArray()
	child := NewMArray(arr, d.ctx)
	child.hasParent = true
	child.parent = parentLink{dict: d, key: key}
	d.setOverride(key, FromNative(ArrayValue(child)))
	return child
}

// GetMutableDict returns key's value as a nested *MDict, with the same
// materialize-on-first-access behavior as GetMutableArray.
func (d *MDict) GetMutableDict(key string) *MDict {
	if mv, ok := d.overrides[key]; ok && !d.deleted[key] && mv.nat.kind == KindDict {
		return mv.nat.dict
	}
	dict, _ := d.backing.Get(key).AsDict()
	child := NewMDict(dict, d.ctx)
	child.hasParent = true
	child.parent = parentLink{dict: d, key: key}
	d.setOverride(key, FromNative(DictValue(child)))
	return child
}

func (d *MDict) setOverride(key string, mv MValue) {
	wasPresent := d.Contains(key)
	delete(d.deleted, key)
	d.overrides[key] = mv
	if !wasPresent {
		d.count++
	}
}

// Set overwrites key's value, inserting a new entry if key was absent.
func (d *MDict) Set(key string, v Value) {
	d.setOverride(key, FromNative(v))
	d.markMutated()
}

// Remove deletes key, if present.
func (d *MDict) Remove(key string) {
	if !d.Contains(key) {
		return
	}
	delete(d.overrides, key)
	d.deleted[key] = true
	d.count--
	d.markMutated()
}

// Keys returns the current set of live keys, backing keys first (minus any
// deleted) followed by keys introduced only via an override.
func (d *MDict) Keys() []string {
	seen := make(map[string]bool, d.count)
	out := make([]string, 0, d.count)
	it := d.backing.Iterator()
	for it.Next() {
		k := it.Key()
		if d.deleted[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	for k := range d.overrides {
		if d.deleted[k] || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
