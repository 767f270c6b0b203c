package format

import "github.com/gofleece/fleece/internal/buf"

// String and Data share a layout: a 1-byte header whose low nibble either
// holds the length directly (0-14) or the sentinel 0x0F meaning "read a
// following varint for the real length". Content lengths of 0 or 1 happen
// to fit entirely inside a 2-byte slot (spec.md §3.2's "inline" case);
// anything longer is always out-of-line, referenced by a pointer slot.
const shortLenSentinel = 0x0F
const maxShortLen = 0x0E

// EncodedHeaderLen returns the number of header bytes (1, or 1 + varint
// length) EncodeStringHeader will write for a string/data of n bytes.
func EncodedHeaderLen(n int) int {
	if n <= maxShortLen {
		return 1
	}
	return 1 + buf.VarintLen(uint64(n))
}

// EncodeStringHeader writes the header for a String (isData=false) or Data
// value of length n into dst, returning the number of bytes written. dst
// must be at least EncodedHeaderLen(n) bytes.
func EncodeStringHeader(dst []byte, n int, isData bool) int {
	tag := TagString
	if isData {
		tag = TagData
	}
	if n <= maxShortLen {
		dst[0] = byte(tag)<<4 | byte(n)
		return 1
	}
	dst[0] = byte(tag)<<4 | shortLenSentinel
	return 1 + buf.PutVarint(dst[1:], uint64(n))
}

// DecodeStringHeader parses a String/Data header starting at data[0],
// returning the declared length and the offset of the content relative to
// data[0]. ok is false if data is too short to contain a complete header.
func DecodeStringHeader(data []byte) (length, contentOff int, ok bool) {
	if len(data) < 1 {
		return 0, 0, false
	}
	low := data[0] & 0x0F
	if low != shortLenSentinel {
		return int(low), 1, true
	}
	n, used := buf.Varint(data[1:])
	if used == 0 {
		return 0, 0, false
	}
	return int(n), 1 + used, true
}
