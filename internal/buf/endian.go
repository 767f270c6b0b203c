package buf

import (
	"encoding/binary"
	"math"
)

// Fleece's on-disk numeric fields are big-endian (network order), matching
// the reference format. Containers (array/dict slot tables) are likewise
// big-endian so that a 2-byte slot and the high byte of a 4-byte slot
// overlap consistently when a reader widens its view.

// U16 reads a big-endian uint16 from b. Returns 0 when b is too short.
func U16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32 reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64 reads a big-endian uint64 from b. Returns 0 when b is too short.
func U64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// PutU16 writes a big-endian uint16 into b, which must have len(b) >= 2.
func PutU16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }

// PutU32 writes a big-endian uint32 into b, which must have len(b) >= 4.
func PutU32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }

// PutU64 writes a big-endian uint64 into b, which must have len(b) >= 8.
func PutU64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

// F32 reinterprets a big-endian 4-byte payload as an IEEE-754 float32.
func F32(b []byte) float32 { return math.Float32frombits(U32(b)) }

// F64 reinterprets a big-endian 8-byte payload as an IEEE-754 float64.
func F64(b []byte) float64 { return math.Float64frombits(U64(b)) }

// PutF32 writes v as a big-endian IEEE-754 float32.
func PutF32(b []byte, v float32) { PutU32(b, math.Float32bits(v)) }

// PutF64 writes v as a big-endian IEEE-754 float64.
func PutF64(b []byte, v float64) { PutU64(b, math.Float64bits(v)) }
