package fleece

import (
	"sort"
	"strconv"

	"github.com/gofleece/fleece/internal/format"
	"github.com/gofleece/fleece/internal/slice"
)

// Dict is a read-only view over a Fleece dict value's slot table. Keys are
// stored sorted so Get can binary-search instead of scanning (spec.md
// §3.5): integer-encoded shared keys sort before any string key, and
// string keys sort bytewise among themselves.
//
// Grounded on the teacher's hive.Object (hive/nk.go) for the accessor
// shape, generalized to Fleece's shared-keys-aware sorted layout.
type Dict struct {
	v Value
}

// Count returns the number of key/value pairs in the dict.
func (d Dict) Count() int {
	count, _, ok := containerHeader(d.v)
	if !ok {
		return 0
	}
	return count
}

func (d Dict) slotWidth() (width int, ok bool) {
	_, wide, ok := containerHeader(d.v)
	if !ok {
		return 0, false
	}
	return format.SlotWidth(wide), true
}

// keyValueAt returns the key Value and value Value of pair index i (0-based
// among key/value pairs, not raw slots).
func (d Dict) keyValueAt(i int) (key, val Value) {
	width, ok := d.slotWidth()
	if !ok {
		return Undefined, Undefined
	}
	base := d.v.addr + format.HeaderSize + (2*i)*width
	key = slotValue(d.v.buf, d.v.doc, base, width)
	val = slotValue(d.v.buf, d.v.doc, base+width, width)
	return key, val
}

// keyString renders a dict key Value as a comparable string: either its
// literal string content, or, for a shared-key integer, the name it
// resolves to via the Doc's SharedKeys registry (falling back to the raw
// integer's decimal text if no registry is attached, which at least keeps
// comparisons internally consistent within one Dict).
func (d Dict) keyString(key Value) string {
	switch key.Type() {
	case TypeString:
		return key.AsString()
	case TypeInt, TypeUInt:
		if d.v.doc != nil {
			if keys := d.v.doc.SharedKeys(); keys != nil {
				if s, ok := keys.Decode(int(key.AsInt())); ok {
					return s
				}
			}
		}
		return strconv.FormatInt(key.AsInt(), 10)
	default:
		return ""
	}
}

// isIntKey reports whether k was encoded as a shared-key integer rather
// than a literal string key.
func isIntKey(k Value) bool {
	return k.Type() == TypeInt || k.Type() == TypeUInt
}

// intKeyBoundary returns the count of integer-keyed pairs at the front of
// the sorted slot table: the encoder always sorts shared-key integers
// before string keys (spec.md §3.5), so that prefix/suffix split is itself
// found by binary search.
func (d Dict) intKeyBoundary(n int) int {
	return sort.Search(n, func(i int) bool {
		k, _ := d.keyValueAt(i)
		return !isIntKey(k)
	})
}

// sharedKeyID resolves key to its shared-key integer id via the Dict's Doc
// registry, without registering a new id — a pure lookup mirroring the
// eligibility the encoder already applied when it chose to intern key.
func (d Dict) sharedKeyID(key string) (int, bool) {
	if d.v.doc == nil {
		return 0, false
	}
	keys := d.v.doc.SharedKeys()
	if keys == nil {
		return 0, false
	}
	id := keys.Encode(key, false)
	if id < 0 {
		return 0, false
	}
	return id, true
}

// find returns key's pair index and value, or (-1, Undefined) if absent.
// It implements spec.md §4.4's two-phase lookup: the registry is consulted
// first to obtain key's integer form, which is binary-searched numerically
// against the integer-keyed prefix of the sorted slot table; only then is
// the string-keyed suffix binary-searched lexicographically. A single
// sort.Search over the whole table can't work here, because the table's
// true order is by shared-key *id* (spec.md §3.5), not by decoded name —
// whenever two shared keys' id-assignment order disagrees with their
// alphabetical order, a name-based comparator isn't monotonic over the
// actual slot order and the search silently misses the key.
func (d Dict) find(key string) (int, Value) {
	n := d.Count()
	if n == 0 {
		return -1, Undefined
	}
	boundary := d.intKeyBoundary(n)

	if id, ok := d.sharedKeyID(key); ok {
		i := sort.Search(boundary, func(i int) bool {
			k, _ := d.keyValueAt(i)
			return k.AsInt() >= int64(id)
		})
		if i < boundary {
			if k, v := d.keyValueAt(i); k.AsInt() == int64(id) {
				return i, v
			}
		}
	}

	i := boundary + sort.Search(n-boundary, func(i int) bool {
		k, _ := d.keyValueAt(boundary + i)
		return d.keyString(k) >= key
	})
	if i < n {
		if k, v := d.keyValueAt(i); d.keyString(k) == key {
			return i, v
		}
	}
	return -1, Undefined
}

// Get looks up key via Dict's two-phase sorted binary search (spec.md
// §4.4).
func (d Dict) Get(key string) Value {
	_, v := d.find(key)
	return v
}

// DictKey caches the slot index of a key's last-seen position in a Dict,
// so repeated lookups of the same key against the same (or a
// structurally similar) dict can skip straight to a direct check before
// falling back to Dict's full two-phase search (spec.md §4.4: "a caller
// may cache a DictKey that stores the last-seen slot index as a hint to
// accelerate repeated lookups of the same key").
//
// Grounded on the same cached-slot-hint idea as the original's
// FLDictKey, reshaped as a small mutable struct a caller holds onto
// across calls rather than a value passed by pointer into a C function.
type DictKey struct {
	key  string
	hint int
}

// NewDictKey returns a DictKey for repeated lookups of key, with no cached
// hint yet.
func NewDictKey(key string) *DictKey {
	return &DictKey{key: key, hint: -1}
}

// Key returns the string this DictKey looks up.
func (dk *DictKey) Key() string { return dk.key }

// Get resolves dk's key against d. If dk's cached hint still points at a
// pair keyed by dk.key in d, that pair's value is returned directly;
// otherwise Get falls back to d.find and updates the hint for next time.
func (dk *DictKey) Get(d Dict) Value {
	if dk.hint >= 0 && dk.hint < d.Count() {
		if k, v := d.keyValueAt(dk.hint); d.keyString(k) == dk.key {
			return v
		}
	}
	i, v := d.find(dk.key)
	if i >= 0 {
		dk.hint = i
	}
	return v
}

// GetUnsorted looks up key by linear scan, for dicts built without the
// sorted-key invariant (e.g. mid-construction). Most callers want Get.
func (d Dict) GetUnsorted(key string) Value {
	n := d.Count()
	for i := 0; i < n; i++ {
		k, v := d.keyValueAt(i)
		if d.keyString(k) == key {
			return v
		}
	}
	return Undefined
}

// GetCaseInsensitive looks up key by linear scan using a lowercase-folded
// comparison (spec.md §4.1's "separate lowercase-folded comparator for
// ASCII-case-insensitive keys"), for callers matching externally supplied
// keys whose case is not guaranteed to match what was stored.
func (d Dict) GetCaseInsensitive(key string) Value {
	target := slice.New([]byte(key))
	n := d.Count()
	for i := 0; i < n; i++ {
		k, v := d.keyValueAt(i)
		if slice.New([]byte(d.keyString(k))).EqualFold(target) {
			return v
		}
	}
	return Undefined
}

// DictIterator walks a Dict's key/value pairs in sorted order.
type DictIterator struct {
	d     Dict
	index int
}

// Iterator returns a fresh DictIterator positioned before the first pair.
func (d Dict) Iterator() *DictIterator { return &DictIterator{d: d, index: -1} }

// Next advances the iterator and reports whether a pair is now available.
func (it *DictIterator) Next() bool {
	it.index++
	return it.index < it.d.Count()
}

// Key returns the current pair's key as a string.
func (it *DictIterator) Key() string {
	k, _ := it.d.keyValueAt(it.index)
	return it.d.keyString(k)
}

// KeyValue returns the current pair's raw key Value, without resolving a
// shared-key integer to its string form.
func (it *DictIterator) KeyValue() Value {
	k, _ := it.d.keyValueAt(it.index)
	return k
}

// Value returns the current pair's value.
func (it *DictIterator) Value() Value {
	_, v := it.d.keyValueAt(it.index)
	return v
}

// ToMap materializes the dict as a map[string]Value. Intended for small
// dicts or interop call sites; large dicts should prefer Get/Iterator.
func (d Dict) ToMap() map[string]Value {
	out := make(map[string]Value, d.Count())
	it := d.Iterator()
	for it.Next() {
		out[it.Key()] = it.Value()
	}
	return out
}
