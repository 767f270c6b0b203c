// Package mutable implements the copy-on-write overlay over an immutable
// fleece document: MArray and MDict let a caller edit a tree without
// touching the original bytes, tracking which branches changed (spec.md
// §4.7, §3.8). Encoding the result re-serializes the whole tree, unchanged
// parts included; see EncodeArray.
//
// Grounded on the teacher's root hive package for the "typed value wrapping
// an untyped slot" idiom (hive/nk.go), generalized here to a tagged union
// that can additionally hold a caller-supplied native Go value instead of
// only ever pointing back into the original buffer.
package mutable

import "github.com/gofleece/fleece/fleece"

// Kind identifies which native form a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindFloat64
	KindString
	KindData
	KindArray
	KindDict
)

// Value is a native replacement for an overridden slot: a scalar, or a
// pointer to a nested mutable container.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	d    []byte
	arr  *MArray
	dict *MDict
}

func Null() Value                 { return Value{kind: KindNull} }
func Bool(v bool) Value           { return Value{kind: KindBool, b: v} }
func Int(v int64) Value           { return Value{kind: KindInt64, i: v} }
func Uint(v uint64) Value         { return Value{kind: KindUint64, u: v} }
func Float(v float64) Value       { return Value{kind: KindFloat64, f: v} }
func String(v string) Value       { return Value{kind: KindString, s: v} }
func Data(v []byte) Value         { return Value{kind: KindData, d: v} }
func ArrayValue(a *MArray) Value  { return Value{kind: KindArray, arr: a} }
func DictValue(d *MDict) Value    { return Value{kind: KindDict, dict: d} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) AsBool() bool    { return v.b }
func (v Value) AsInt() int64    { return v.i }
func (v Value) AsUint() uint64  { return v.u }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsString() string { return v.s }
func (v Value) AsData() []byte   { return v.d }
func (v Value) AsArray() *MArray { return v.arr }
func (v Value) AsDict() *MDict   { return v.dict }

// fromImmutable converts a read-only fleece.Value into a native Value for
// a caller that asked for a scalar; containers should be fetched through
// GetMutableArray/GetMutableDict instead so edits are tracked.
func fromImmutable(v fleece.Value) Value {
	switch v.Type() {
	case fleece.TypeBool:
		return Bool(v.AsBool())
	case fleece.TypeInt:
		return Int(v.AsInt())
	case fleece.TypeUInt:
		return Uint(v.AsUnsigned())
	case fleece.TypeFloat32, fleece.TypeFloat64:
		return Float(v.AsFloat64())
	case fleece.TypeString:
		return String(v.AsString())
	case fleece.TypeData:
		return Data(v.AsData())
	default:
		return Null()
	}
}

// FromImmutableValue converts any fleece.Value — scalar or container —
// into a native Value, wrapping Array/Dict children as fresh MArray/MDict
// views anchored to ctx rather than copying them. Used when a caller
// grafts an existing Value into a tree under construction (e.g. the
// builder's "%p" hole).
func FromImmutableValue(v fleece.Value, ctx *Context) Value {
	switch v.Type() {
	case fleece.TypeArray:
		arr, _ := v.AsArray()
		return ArrayValue(NewMArray(arr, ctx))
	case fleece.TypeDict:
		dict, _ := v.AsDict()
		return DictValue(NewMDict(dict, ctx))
	default:
		return fromImmutable(v)
	}
}

// MValue is one slot of an MArray or a value in an MDict's override map: it
// is either empty (defer to the backing immutable value), bound directly to
// an immutable value, or overridden with a native Value (spec.md §4.7).
type MValue struct {
	isSet bool
	imm   fleece.Value
	bound bool
	nat   Value
}

// Empty returns the zero MValue: "use the underlying immutable element".
func Empty() MValue { return MValue{} }

// FromImmutable binds an MValue directly to an immutable value.
func FromImmutable(v fleece.Value) MValue { return MValue{isSet: true, bound: true, imm: v} }

// FromNative overrides an MValue with a native Go value.
func FromNative(v Value) MValue { return MValue{isSet: true, nat: v} }

// IsEmpty reports whether the slot defers to the backing immutable value.
func (m MValue) IsEmpty() bool { return !m.isSet }
