// Package format implements the Fleece binary layout: the tagged 2-/4-byte
// value header, pointer encoding, container slot tables, and the document
// trailer. It is a pure, allocation-free codec over a borrowed []byte —
// it never retains a reference to the slice it parses.
package format

// HeaderSize is the width of an inline value or a narrow pointer/slot.
const HeaderSize = 2

// WideHeaderSize is the width of a slot inside a "wide" container.
const WideHeaderSize = 4

// TrailerSize is the width of the root pointer at the end of a document.
const TrailerSize = 2

// MaxNarrowCount is the largest count (array length or dict pair count)
// that fits in the 11 header bits available for it.
const MaxNarrowCount = 0x7FF

// MaxNarrowPointerOffset is the largest backward offset a 2-byte pointer
// can address (offset is shifted right by 1, so the reach is 32 KiB).
const MaxNarrowPointerOffset = 0x3FFF * 2

// MaxWidePointerOffset is the largest backward offset a 4-byte pointer can
// address (2 GiB, offset shifted right by 1 into a 30-bit field).
const MaxWidePointerOffset = 0x3FFFFFFF * 2

// MaxSharedKeyID is the largest id SharedKeys will ever assign (spec.md §3.6).
const MaxSharedKeyID = 2047

// MaxInlineStringLen is the longest string that may be encoded fully inline
// in a 2-byte header (spec.md §3.2: "length <= 1 byte may live inline").
const MaxInlineStringLen = 1
