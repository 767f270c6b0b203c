package format

// Tag identifies the logical form of a non-pointer value header. It occupies
// the top 4 bits of the header's first byte; bit 7 of that byte is reserved
// as the pointer marker (see pointer.go), so only values 0-7 are valid tags.
// This is one fixed resolution of the "exact bit layout" open question in
// spec.md §9: the source shows several variants across files, so this
// implementation commits to one and documents it here instead of guessing
// per call site.
type Tag byte

const (
	TagSmallInt Tag = iota // 12-bit signed immediate
	TagIntUint              // 1-8 byte two's-complement payload, sign flag in low nibble
	TagFloat                // IEEE-754 payload, width flag in low nibble
	TagSpecial              // Null / Undefined / True / False, value in low nibble
	TagString               // varint length + UTF-8 bytes
	TagData                 // varint length + raw bytes
	TagArray                // count + wide flag in header, followed by slots
	TagDict                 // like Array but 2*count slots, sorted by key
)

// Special-value low-nibble codes (TagSpecial).
const (
	SpecialNull byte = iota
	SpecialUndefined
	SpecialTrue
	SpecialFalse
)

// tagMask extracts the tag nibble from a header byte.
func tagOf(b0 byte) Tag { return Tag((b0 >> 4) & 0x7) }

// IsPointer reports whether the header byte's top bit marks a pointer slot.
func IsPointer(b0 byte) bool { return b0&0x80 != 0 }
