// Package fleece is the public value-accessor surface over Fleece's binary
// format: Doc, Value, Array, Dict, KeyPath and DeepIterator. It never
// mutates the bytes it reads; the mutable overlay lives in package mutable,
// and encoding lives in package encoder.
//
// Grounded on the teacher's root hive package (hive/nk.go, hive/vk.go): a
// typed accessor layered directly over an offset into a borrowed byte
// slice, with no intermediate parse tree.
package fleece

import (
	"github.com/gofleece/fleece/internal/buf"
	"github.com/gofleece/fleece/internal/format"
	"github.com/gofleece/fleece/internal/slice"
	"github.com/gofleece/fleece/internal/verify"
	"github.com/gofleece/fleece/internal/walker"
	"github.com/gofleece/fleece/sharedkeys"
)

// Doc owns a Fleece byte buffer (or a borrowed reference into one, such as
// a caller's own memory map — Fleece itself never calls mmap; see
// SPEC_FULL.md's dropped-dependency note) and optionally a SharedKeys
// registry. Every Value obtained from a Doc is valid for the Doc's
// lifetime (spec.md §3.7).
type Doc struct {
	owned      slice.AllocSlice // set when Doc owns its buffer
	bytes      []byte
	keys       *sharedkeys.SharedKeys
	externBase []byte
	baseLen    int // combined-address boundary below which addresses fall in externBase
}

// NewDoc parses data as an untrusted Fleece document: the trailer and every
// pointer/container/string bound reachable from the root are validated
// up front (spec.md §4.2). It returns an *Error of kind ErrKindInvalidData
// (wrapping the specific structural problem) if data is malformed.
func NewDoc(data []byte) (*Doc, error) {
	if err := verify.Document(data); err != nil {
		return nil, newError(ErrKindInvalidData, "corrupt Fleece document", err)
	}
	return NewDocTrusted(data), nil
}

// NewDocTrusted wraps data as a Fleece document without validating it.
// Reads against corrupt trusted data may panic or return nonsense; use
// NewDoc for any data that did not originate from this library's own
// encoder.
func NewDocTrusted(data []byte) *Doc {
	return &Doc{bytes: data}
}

// NewDocFromAlloc wraps an AllocSlice, retaining it for the Doc's lifetime.
// Release must be called exactly once to drop the Doc's retain.
func NewDocFromAlloc(a slice.AllocSlice) *Doc {
	return &Doc{owned: a.Retain(), bytes: a.Bytes()}
}

// Release drops the Doc's retain on its owned buffer, if any. It is a no-op
// for Docs constructed from borrowed bytes.
func (d *Doc) Release() {
	d.owned.Release()
}

// SetSharedKeys attaches a SharedKeys registry used to resolve integer dict
// keys written by an encoder sharing the same registry.
func (d *Doc) SetSharedKeys(k *sharedkeys.SharedKeys) { d.keys = k }

// SharedKeys returns the Doc's attached registry, or nil.
func (d *Doc) SharedKeys() *sharedkeys.SharedKeys { return d.keys }

// SetExtern designates externBase as the foreign base document that extern
// pointers (spec.md §3.7) in this Doc's bytes resolve against, with baseLen
// the logical length the encoder counted as preceding this Doc's own bytes
// when it computed pointer distances (spec.md §4.5's amend/externPointers).
func (d *Doc) SetExtern(externBase []byte, baseLen int) {
	d.externBase = externBase
	d.baseLen = baseLen
}

// Bytes returns the Doc's own backing buffer (not including any extern base).
func (d *Doc) Bytes() []byte { return d.bytes }

// Root returns the document's root value, resolved via the 2-byte trailer
// at the end of Bytes (spec.md §3.3).
func (d *Doc) Root() Value {
	addr, ok := format.DecodeTrailer(d.bytes)
	if !ok {
		return Value{}
	}
	return Value{buf: d.bytes, addr: addr, doc: d}
}

// ValueAt returns the value whose header starts at the given offset into
// Bytes, bypassing the trailer. Used after an amend/snip, where the new
// root's address is reported directly by the encoder instead of via a
// (possibly suppressed) trailer.
func (d *Doc) ValueAt(addr int) Value {
	if addr < 0 || addr >= len(d.bytes) {
		return Value{}
	}
	return Value{buf: d.bytes, addr: addr, doc: d}
}

// DeepSize returns the total number of encoded bytes reachable from the
// document's root, counting each distinct value once regardless of how
// many pointers reference it (spec.md's "recursive size" accounting,
// carried over from the original's Expert API). An inline value is counted
// at its slot address in addition to the container slot table that holds
// it, so the total can exceed the document's raw byte length.
func (d *Doc) DeepSize() int {
	seen := walker.NewBitmap(len(d.bytes), 2)
	total := 0
	it := NewDeepIterator(d.Root())
	for it.Next() {
		v := it.Value()
		if v.IsUndefined() {
			continue
		}
		if seen.IsSet(v.addr) {
			it.SkipChildren()
			continue
		}
		seen.Set(v.addr)
		total += valueByteSize(v.buf, v.addr)
	}
	return total
}

// valueByteSize returns the number of bytes the value at addr occupies,
// header plus any out-of-line payload, without validating it (callers
// only ever reach an address a DeepIterator produced from a Doc that was
// itself already validated at NewDoc time).
func valueByteSize(data []byte, addr int) int {
	tag, isPointer, ok := format.Classify(data, addr)
	if !ok || isPointer {
		return 0
	}
	switch tag {
	case format.TagSmallInt, format.TagSpecial:
		return format.HeaderSize
	case format.TagIntUint:
		byteCount, _ := format.DecodeIntHeader(data[addr])
		return 1 + byteCount
	case format.TagFloat:
		n := 4
		if format.DecodeFloatHeader(data[addr]) {
			n = 8
		}
		return 1 + n
	case format.TagString, format.TagData:
		length, contentOff, ok := format.DecodeStringHeader(data[addr:])
		if !ok {
			return 0
		}
		return contentOff + length
	case format.TagArray, format.TagDict:
		if !buf.Has(data, addr, format.HeaderSize) {
			return 0
		}
		count, wide := format.DecodeContainerHeader(data[addr], data[addr+1])
		slots := count
		if tag == format.TagDict {
			slots = count * 2
		}
		return format.HeaderSize + slots*format.SlotWidth(wide)
	default:
		return 0
	}
}

// resolveCombined turns a combined address (spec.md §4.5: "base counted as
// preceding bytes") into the buffer and local address it falls in. It is
// used when decoding array/dict slots inside a Doc configured with
// SetExtern; Docs with no extern base treat every address as local.
func (d *Doc) resolveCombined(combined int) (buf []byte, local int, ok bool) {
	if d.baseLen > 0 && combined < d.baseLen {
		if d.externBase == nil {
			return nil, 0, false
		}
		return d.externBase, combined, true
	}
	local = combined - d.baseLen
	if local < 0 || local >= len(d.bytes) {
		return nil, 0, false
	}
	return d.bytes, local, true
}
