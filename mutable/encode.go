package mutable

import (
	"github.com/gofleece/fleece/encoder"
	"github.com/gofleece/fleece/fleece"
)

// EncodeRootArray encodes a as a standalone document with opts applied to a
// fresh Encoder.
func EncodeRootArray(a *MArray, opts ...encoder.Option) ([]byte, error) {
	enc := encoder.New(opts...)
	EncodeArray(enc, a)
	return enc.Finish()
}

// EncodeRootDict encodes d as a standalone document with opts applied to a
// fresh Encoder.
func EncodeRootDict(d *MDict, opts ...encoder.Option) ([]byte, error) {
	enc := encoder.New(opts...)
	EncodeDict(enc, d)
	return enc.Finish()
}

// EncodeArray writes a's current contents (a mix of untouched backing
// elements and overridden/inserted ones) via enc.
//
// Every clean substructure is re-serialized here rather than referenced as
// a back-pointer into an amend base (spec.md §4.7 describes the latter as
// an optimization); this keeps the encode path a single recursive walk
// instead of needing byte-identity plumbing between a Value and the base
// buffer an Encoder was amending against. The output is correct either
// way — amend-mode callers simply pay for a full copy of unchanged data
// instead of a 2-4 byte pointer.
func EncodeArray(enc *encoder.Encoder, a *MArray) {
	enc.BeginArray()
	for i := 0; i < a.Count(); i++ {
		encodeSlot(enc, a.Slot(i), a.backing, i)
	}
	enc.EndArray()
}

// EncodeDict writes d's current entries via enc, in whatever order Keys
// returns (the encoder's EndDict re-sorts them for the wire format).
func EncodeDict(enc *encoder.Encoder, d *MDict) {
	enc.BeginDict()
	for _, key := range d.Keys() {
		enc.WriteKey(key)
		if mv, ok := d.overrides[key]; ok {
			encodeMValue(enc, mv)
			continue
		}
		EncodeImmutable(enc, d.backing.Get(key))
	}
	enc.EndDict()
}

func encodeSlot(enc *encoder.Encoder, slot MValue, backing fleece.Array, i int) {
	if slot.IsEmpty() {
		EncodeImmutable(enc, backing.Get(i))
		return
	}
	encodeMValue(enc, slot)
}

func encodeMValue(enc *encoder.Encoder, mv MValue) {
	if mv.bound {
		EncodeImmutable(enc, mv.imm)
		return
	}
	EncodeNative(enc, mv.nat)
}

// EncodeNative writes a native override Value via enc.
func EncodeNative(enc *encoder.Encoder, v Value) {
	switch v.kind {
	case KindNull:
		enc.WriteNull()
	case KindBool:
		enc.WriteBool(v.b)
	case KindInt64:
		enc.WriteInt(v.i)
	case KindUint64:
		enc.WriteUint(v.u)
	case KindFloat64:
		enc.WriteFloat64(v.f)
	case KindString:
		enc.WriteString(v.s)
	case KindData:
		enc.WriteData(v.d)
	case KindArray:
		EncodeArray(enc, v.arr)
	case KindDict:
		EncodeDict(enc, v.dict)
	}
}

// EncodeImmutable writes a read-only fleece.Value via enc, recursing into
// Array/Dict children.
func EncodeImmutable(enc *encoder.Encoder, v fleece.Value) {
	switch v.Type() {
	case fleece.TypeUndefined:
		enc.WriteUndefined()
	case fleece.TypeNull:
		enc.WriteNull()
	case fleece.TypeBool:
		enc.WriteBool(v.AsBool())
	case fleece.TypeInt:
		enc.WriteInt(v.AsInt())
	case fleece.TypeUInt:
		enc.WriteUint(v.AsUnsigned())
	case fleece.TypeFloat32:
		enc.WriteFloat32(v.AsFloat32())
	case fleece.TypeFloat64:
		enc.WriteFloat64(v.AsFloat64())
	case fleece.TypeString:
		enc.WriteString(v.AsString())
	case fleece.TypeData:
		enc.WriteData(v.AsData())
	case fleece.TypeArray:
		arr, _ := v.AsArray()
		enc.BeginArray()
		for i := 0; i < arr.Count(); i++ {
			EncodeImmutable(enc, arr.Get(i))
		}
		enc.EndArray()
	case fleece.TypeDict:
		dict, _ := v.AsDict()
		enc.BeginDict()
		it := dict.Iterator()
		for it.Next() {
			enc.WriteKey(it.Key())
			EncodeImmutable(enc, it.Value())
		}
		enc.EndDict()
	}
}
