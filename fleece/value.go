package fleece

import (
	"math"

	"github.com/gofleece/fleece/internal/buf"
	"github.com/gofleece/fleece/internal/format"
)

// ValueType enumerates the 11 logical value forms (spec.md §3.1).
type ValueType int

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBool
	TypeInt
	TypeUInt
	TypeFloat32
	TypeFloat64
	TypeString
	TypeData
	TypeArray
	TypeDict
)

func (t ValueType) String() string {
	switch t {
	case TypeUndefined:
		return "Undefined"
	case TypeNull:
		return "Null"
	case TypeBool:
		return "Bool"
	case TypeInt:
		return "Int"
	case TypeUInt:
		return "UInt"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	case TypeString:
		return "String"
	case TypeData:
		return "Data"
	case TypeArray:
		return "Array"
	case TypeDict:
		return "Dict"
	default:
		return "Unknown"
	}
}

// Value is a zero-copy handle to a decoded Fleece value: a (buffer, byte
// offset) pair, optionally scoped to a Doc (spec.md §9's redesign of the
// original's pointer-to-self-inside-a-slice trick). The zero Value is
// Undefined, matching spec.md §3.1: "Undefined is a first-class value
// distinct from a missing pointer."
type Value struct {
	buf  []byte
	addr int
	doc  *Doc
}

// Undefined is the canonical Undefined value.
var Undefined = Value{}

// IsUndefined reports whether v is the Undefined value.
func (v Value) IsUndefined() bool { return v.buf == nil }

// Doc returns the Doc a Value was read from, or nil if it was constructed
// directly from bytes (spec.md §3.7).
func (v Value) Doc() *Doc { return v.doc }

func (v Value) header() byte {
	if v.buf == nil || v.addr < 0 || v.addr >= len(v.buf) {
		return 0
	}
	return v.buf[v.addr]
}

// Type reports v's logical type.
func (v Value) Type() ValueType {
	if v.IsUndefined() {
		return TypeUndefined
	}
	tag, isPointer, ok := format.Classify(v.buf, v.addr)
	if !ok || isPointer {
		return TypeUndefined
	}
	switch tag {
	case format.TagSmallInt, format.TagIntUint:
		if v.isUnsignedTag() {
			return TypeUInt
		}
		return TypeInt
	case format.TagFloat:
		if format.DecodeFloatHeader(v.header()) {
			return TypeFloat64
		}
		return TypeFloat32
	case format.TagSpecial:
		switch format.DecodeSpecial(v.header()) {
		case format.SpecialNull:
			return TypeNull
		case format.SpecialTrue, format.SpecialFalse:
			return TypeBool
		default:
			return TypeUndefined
		}
	case format.TagString:
		return TypeString
	case format.TagData:
		return TypeData
	case format.TagArray:
		return TypeArray
	case format.TagDict:
		return TypeDict
	default:
		return TypeUndefined
	}
}

func (v Value) isUnsignedTag() bool {
	tag, _, _ := format.Classify(v.buf, v.addr)
	if tag == format.TagSmallInt {
		return false
	}
	_, unsigned := format.DecodeIntHeader(v.header())
	return unsigned
}

// IsUnsigned reports whether an Int/UInt value needs the unsigned accessor
// to be read without loss (spec.md §4.2: values >= 2^63 require AsUnsigned).
func (v Value) IsUnsigned() bool {
	return v.Type() == TypeUInt
}

// AsBool reports v's boolean value: true for Bool(true) and any numeric
// non-zero value; false for everything else, including Undefined and Null.
func (v Value) AsBool() bool {
	switch v.Type() {
	case TypeBool:
		return format.DecodeSpecial(v.header()) == format.SpecialTrue
	case TypeInt:
		return v.AsInt() != 0
	case TypeUInt:
		return v.AsUnsigned() != 0
	case TypeFloat32, TypeFloat64:
		return v.AsFloat64() != 0
	default:
		return false
	}
}

// AsInt returns v as a signed 64-bit integer. Values that are actually
// unsigned and >= 2^63 wrap the way a direct bit reinterpretation would;
// callers needing the full range must check IsUnsigned and call
// AsUnsigned instead (spec.md §4.2).
func (v Value) AsInt() int64 {
	if v.IsUndefined() {
		return 0
	}
	tag, _, ok := format.Classify(v.buf, v.addr)
	if !ok {
		return 0
	}
	switch tag {
	case format.TagSmallInt:
		return format.DecodeSmallInt(v.buf[v.addr], v.buf[v.addr+1])
	case format.TagIntUint:
		n, unsigned := format.DecodeIntHeader(v.header())
		payload := v.buf[v.addr+1 : v.addr+1+n]
		if unsigned {
			return int64(format.DecodeUintPayload(payload))
		}
		return format.DecodeIntPayload(payload)
	case format.TagFloat:
		return int64(v.AsFloat64())
	default:
		return 0
	}
}

// AsUnsigned returns v as an unsigned 64-bit integer, exact for values that
// report IsUnsigned() true.
func (v Value) AsUnsigned() uint64 {
	if v.IsUndefined() {
		return 0
	}
	tag, _, ok := format.Classify(v.buf, v.addr)
	if !ok {
		return 0
	}
	switch tag {
	case format.TagSmallInt:
		return uint64(format.DecodeSmallInt(v.buf[v.addr], v.buf[v.addr+1]))
	case format.TagIntUint:
		n, unsigned := format.DecodeIntHeader(v.header())
		payload := v.buf[v.addr+1 : v.addr+1+n]
		if unsigned {
			return format.DecodeUintPayload(payload)
		}
		return uint64(format.DecodeIntPayload(payload))
	default:
		return uint64(v.AsInt())
	}
}

// AsFloat32 returns v as a float32. Reading a Float64 value may round.
func (v Value) AsFloat32() float32 {
	if v.Type() == TypeFloat32 {
		return buf.F32(v.buf[v.addr+1 : v.addr+5])
	}
	return float32(v.AsFloat64())
}

// AsFloat64 returns v as a float64. A Float32 value is widened exactly; a
// Float64 value is returned exactly; an Int/UInt value is converted.
func (v Value) AsFloat64() float64 {
	switch v.Type() {
	case TypeFloat64:
		return buf.F64(v.buf[v.addr+1 : v.addr+9])
	case TypeFloat32:
		return float64(buf.F32(v.buf[v.addr+1 : v.addr+5]))
	case TypeInt:
		return float64(v.AsInt())
	case TypeUInt:
		return float64(v.AsUnsigned())
	default:
		return 0
	}
}

// AsString returns v's string content, or "" if v is not a String.
func (v Value) AsString() string {
	if v.Type() != TypeString {
		return ""
	}
	length, off, _ := format.DecodeStringHeader(v.buf[v.addr:])
	return string(v.buf[v.addr+off : v.addr+off+length])
}

// AsData returns v's raw bytes, or nil if v is not Data.
func (v Value) AsData() []byte {
	if v.Type() != TypeData {
		return nil
	}
	length, off, _ := format.DecodeStringHeader(v.buf[v.addr:])
	return v.buf[v.addr+off : v.addr+off+length]
}

// AsArray returns v as an Array, and true, if v.Type() == TypeArray.
func (v Value) AsArray() (Array, bool) {
	if v.Type() != TypeArray {
		return Array{}, false
	}
	return Array{v: v}, true
}

// AsDict returns v as a Dict, and true, if v.Type() == TypeDict.
func (v Value) AsDict() (Dict, bool) {
	if v.Type() != TypeDict {
		return Dict{}, false
	}
	return Dict{v: v}, true
}

// ParseTimestamp parses an ISO-8601 timestamp or a raw integer millisecond
// count, returning math.MinInt64 on failure (spec.md §4.2).
func ParseTimestamp(v Value) int64 {
	switch v.Type() {
	case TypeInt, TypeUInt:
		return v.AsInt()
	case TypeString:
		if ms, ok := parseISO8601Millis(v.AsString()); ok {
			return ms
		}
		return math.MinInt64
	default:
		return math.MinInt64
	}
}
