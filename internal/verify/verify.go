// Package verify validates an untrusted Fleece document before any Value
// reads are allowed to touch it (spec.md §4.2, §7): every pointer must
// land in bounds and strictly backward, every container's slot table must
// fit, and every string/data length must fit. Trusted decodes skip this
// entirely (fleece.NewDocTrusted).
//
// Grounded on the teacher's hive/verify package: a ValidationError type
// plus an AllInvariants aggregator that runs a fixed battery of structural
// checks before anything else touches the buffer.
package verify

import (
	"fmt"

	"github.com/gofleece/fleece/internal/buf"
	"github.com/gofleece/fleece/internal/format"
)

// ValidationError reports one structural problem found in a document,
// with the byte offset it was found at.
type ValidationError struct {
	Kind   string
	Offset int
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Detail)
}

// maxDepth bounds recursion so a corrupt, deeply-nested document cannot
// exhaust the goroutine stack during validation.
const maxDepth = 10000

// Document validates data as a complete Fleece document: trailer present,
// and every value reachable from the root well-formed and in-bounds.
func Document(data []byte) error {
	if len(data) < format.TrailerSize {
		return &ValidationError{Kind: "trailer", Offset: 0, Detail: "document shorter than trailer"}
	}
	rootAddr, ok := format.DecodeTrailer(data)
	if !ok {
		return &ValidationError{Kind: "trailer", Offset: len(data) - format.TrailerSize, Detail: "malformed root pointer"}
	}
	if rootAddr < 0 || rootAddr >= len(data) {
		return &ValidationError{Kind: "trailer", Offset: len(data) - format.TrailerSize, Detail: "root pointer out of bounds"}
	}
	visited := make(map[int]bool)
	return validateValue(data, rootAddr, 0, visited)
}

func validateValue(data []byte, addr, depth int, visited map[int]bool) error {
	if depth > maxDepth {
		return &ValidationError{Kind: "nesting", Offset: addr, Detail: "exceeds maximum depth"}
	}
	tag, isPointer, ok := format.Classify(data, addr)
	if !ok {
		return &ValidationError{Kind: "header", Offset: addr, Detail: "truncated value header"}
	}
	if isPointer {
		return &ValidationError{Kind: "header", Offset: addr, Detail: "unexpected pointer where a value was expected"}
	}
	switch tag {
	case format.TagSmallInt, format.TagSpecial:
		if !buf.Has(data, addr, format.HeaderSize) {
			return &ValidationError{Kind: "scalar", Offset: addr, Detail: "truncated inline header"}
		}
		return nil
	case format.TagIntUint:
		byteCount, _ := format.DecodeIntHeader(data[addr])
		if !buf.Has(data, addr, 1+byteCount) {
			return &ValidationError{Kind: "int", Offset: addr, Detail: "truncated payload"}
		}
		return nil
	case format.TagFloat:
		n := 4
		if format.DecodeFloatHeader(data[addr]) {
			n = 8
		}
		if !buf.Has(data, addr, 1+n) {
			return &ValidationError{Kind: "float", Offset: addr, Detail: "truncated payload"}
		}
		return nil
	case format.TagString, format.TagData:
		hdr, ok := buf.Slice(data, addr, 1)
		if !ok {
			return &ValidationError{Kind: "string", Offset: addr, Detail: "truncated header"}
		}
		rest := data[addr:]
		length, contentOff, ok := format.DecodeStringHeader(rest)
		_ = hdr
		if !ok {
			return &ValidationError{Kind: "string", Offset: addr, Detail: "truncated length"}
		}
		if !buf.Has(data, addr, contentOff+length) {
			return &ValidationError{Kind: "string", Offset: addr, Detail: "length exceeds available data"}
		}
		return nil
	case format.TagArray, format.TagDict:
		return validateContainer(data, addr, tag, depth, visited)
	default:
		return &ValidationError{Kind: "header", Offset: addr, Detail: "unrecognized tag"}
	}
}

func validateContainer(data []byte, addr int, tag format.Tag, depth int, visited map[int]bool) error {
	if !buf.Has(data, addr, format.HeaderSize) {
		return &ValidationError{Kind: "container", Offset: addr, Detail: "truncated header"}
	}
	count, wide := format.DecodeContainerHeader(data[addr], data[addr+1])
	slots := count
	if tag == format.TagDict {
		slots = count * 2
	}
	width := format.SlotWidth(wide)
	total := format.HeaderSize + slots*width
	if !buf.Has(data, addr, total) {
		return &ValidationError{Kind: "container", Offset: addr, Detail: "slot table exceeds available data"}
	}
	for i := 0; i < slots; i++ {
		slotAddr := addr + format.HeaderSize + i*width
		slot := data[slotAddr : slotAddr+width]
		if format.IsPointer(slot[0]) {
			target, _, ok := format.DecodePointer(slotAddr, slot, wide)
			if !ok {
				return &ValidationError{Kind: "pointer", Offset: slotAddr, Detail: "malformed pointer"}
			}
			if target < 0 || target >= slotAddr {
				return &ValidationError{Kind: "pointer", Offset: slotAddr, Detail: "target is not strictly backward"}
			}
			if visited[target] {
				continue
			}
			visited[target] = true
			if err := validateValue(data, target, depth+1, visited); err != nil {
				return err
			}
		} else {
			if err := validateValue(data, slotAddr, depth+1, visited); err != nil {
				return err
			}
		}
	}
	return nil
}
