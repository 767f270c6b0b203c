package encoder

import "github.com/gofleece/fleece/internal/format"

// Amend configures the encoder so its output is understood to be logically
// appended after baseBytes: pointer distances are computed with baseBytes
// counted as preceding bytes (spec.md §4.5). It must be called before any
// value is written, and is not supported on a sink-backed encoder.
func (e *Encoder) Amend(baseBytes []byte, reuseStrings, externPointers bool) error {
	if e.sink != nil {
		return ErrUnsupportedInFileMode
	}
	if len(e.buf) != 0 || e.hasLast {
		return errAmendAfterWrite
	}
	e.base = baseBytes
	e.baseLen = len(baseBytes)
	e.reuseStrings = reuseStrings
	e.externPointers = externPointers
	if reuseStrings {
		e.prescanBaseStrings()
	}
	return nil
}

// prescanBaseStrings walks baseBytes' document tree (trusted: it must be a
// valid Fleece document) and seeds the dedup table with every string value
// found, so new writes that repeat one of the base's strings reference it
// by pointer instead of re-encoding it.
func (e *Encoder) prescanBaseStrings() {
	if e.dedup == nil {
		e.dedup = make(map[string]int)
	}
	rootAddr, ok := format.DecodeTrailer(e.base)
	if !ok {
		return
	}
	visited := make(map[int]bool)
	e.scanStrings(rootAddr, visited)
}

func (e *Encoder) scanStrings(addr int, visited map[int]bool) {
	if addr < 0 || addr >= len(e.base) || visited[addr] {
		return
	}
	visited[addr] = true
	tag, isPointer, ok := format.Classify(e.base, addr)
	if !ok || isPointer {
		return
	}
	switch tag {
	case format.TagString:
		length, off, ok := format.DecodeStringHeader(e.base[addr:])
		if ok && addr+off+length <= len(e.base) {
			s := string(e.base[addr+off : addr+off+length])
			if _, exists := e.dedup[s]; !exists {
				e.dedup[s] = addr
			}
		}
	case format.TagArray, format.TagDict:
		count, wide := format.DecodeContainerHeader(e.base[addr], e.base[addr+1])
		slots := count
		if tag == format.TagDict {
			slots = count * 2
		}
		width := format.SlotWidth(wide)
		for i := 0; i < slots; i++ {
			slotAddr := addr + format.HeaderSize + i*width
			if slotAddr+width > len(e.base) {
				break
			}
			slot := e.base[slotAddr : slotAddr+width]
			if format.IsPointer(slot[0]) {
				target, extern, ok := format.DecodePointer(slotAddr, slot, wide)
				if ok && !extern {
					e.scanStrings(target, visited)
				}
			}
		}
	}
}

// Snip returns the bytes written so far as a standalone document (with its
// own trailer) and resets the encoder to accept further writes as a fresh
// overlay appended after the combined base+snipped bytes (spec.md §4.5).
func (e *Encoder) Snip() ([]byte, error) {
	if e.sink != nil {
		return nil, ErrUnsupportedInFileMode
	}
	out, err := e.Finish()
	if err != nil {
		return nil, err
	}
	newBaseLen := e.baseLen + len(out)
	e.buf = nil
	e.baseLen = newBaseLen
	e.hasLast = false
	e.finished = false
	e.err = nil
	return out, nil
}

// Append is an alias for WriteValueAgain kept for readers of the spec who
// know the original API's naming; it re-emits a reference to a previously
// written out-of-line value.
func (e *Encoder) Append(addr int) { e.WriteValueAgain(addr) }
