package buf

import "encoding/binary"

// PutVarint writes n as an unsigned LEB128 varint, the length prefix used by
// String and Data values (spec.md §3.2). It returns the number of bytes written.
func PutVarint(b []byte, n uint64) int {
	return binary.PutUvarint(b, n)
}

// VarintLen returns the number of bytes PutVarint would write for n.
func VarintLen(n uint64) int {
	i := 0
	for {
		i++
		n >>= 7
		if n == 0 {
			return i
		}
	}
}

// Varint reads an unsigned LEB128 varint from b, returning the value and the
// number of bytes consumed, or (0, 0) if b does not contain a complete varint.
func Varint(b []byte) (uint64, int) {
	v, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, 0
	}
	return v, n
}
