package encoder

import (
	"sort"

	"github.com/gofleece/fleece/internal/format"
)

func isSmallIntKey(c pendingChild) bool {
	return c.isInline && format.Tag((c.inline[0]>>4)&0x7) == format.TagSmallInt
}

func smallIntKeyValue(c pendingChild) int64 {
	return format.DecodeSmallInt(c.inline[0], c.inline[1])
}

// sortPairs orders dict pairs the way a reader's two-phase binary search
// expects (spec.md §3.5, mirrored from fleece.Dict.find): shared-key
// integers sort before literal string keys, and compare numerically among
// themselves so "10" does not sort before "9".
func sortPairs(pairs []dictPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		aInt, bInt := isSmallIntKey(a.key), isSmallIntKey(b.key)
		if aInt != bInt {
			return aInt
		}
		if aInt && bInt {
			return smallIntKeyValue(a.key) < smallIntKeyValue(b.key)
		}
		return a.keyText < b.keyText
	})
}

// layoutContainer writes a container header and slot table for children
// (already-written values), trying a narrow (2-byte) slot width first and
// only widening to 4 bytes if some backward pointer cannot be represented
// narrowly (spec.md's Open Question on width promotion: decided as a
// two-pass attempt-narrow-then-widen strategy rather than tracking a
// running "high water mark" incrementally).
func (e *Encoder) layoutContainer(tag format.Tag, children []pendingChild, _ any) (addr int, ok bool) {
	count := len(children)
	if tag == format.TagDict {
		count /= 2
	}
	if count > format.MaxNarrowCount {
		e.fail("fleece: container has %d entries, exceeding the %d limit", count, format.MaxNarrowCount)
		return 0, false
	}

	wide := !fitsNarrow(e.curAddr(), children)
	width := format.SlotWidth(wide)

	// Wide slots never hold an inline value directly (the format always
	// treats a wide slot as a pointer); re-home any inline child as its
	// own out-of-line value before computing the header's final address,
	// so every address used below reflects the buffer's final shape.
	if wide {
		for i, c := range children {
			if c.isInline {
				children[i] = pendingChild{addr: e.append(c.inline[:])}
			}
		}
	}

	headerAddr := e.curAddr()
	out := make([]byte, format.HeaderSize+len(children)*width)
	format.EncodeContainerHeader(out, tag, count, wide)
	for i, c := range children {
		slot := out[format.HeaderSize+i*width : format.HeaderSize+(i+1)*width]
		if c.isInline {
			copy(slot, c.inline[:])
			continue
		}
		slotAddr := headerAddr + format.HeaderSize + i*width
		if !format.EncodePointer(slot, slotAddr, c.addr, false, wide) {
			e.fail("fleece: child at %d cannot be addressed from container at %d", c.addr, slotAddr)
			return 0, false
		}
	}
	addr = e.append(out)
	return addr, true
}

func fitsNarrow(containerStart int, children []pendingChild) bool {
	headerAddr := containerStart
	width := format.HeaderSize
	for i, c := range children {
		if c.isInline {
			continue
		}
		slotAddr := headerAddr + format.HeaderSize + i*width
		if !format.PointerFits(slotAddr-c.addr, false) {
			return false
		}
	}
	return true
}
