package fleece

import "github.com/gofleece/fleece/internal/format"

// slotValue decodes the value stored in the container slot at slotAddr
// (width bytes, either a pointer or an inline value), resolving a pointer's
// target and, if the pointer is marked extern, following it into the Doc's
// configured extern base (spec.md §3.7).
func slotValue(containerBuf []byte, doc *Doc, slotAddr, width int) Value {
	slot := containerBuf[slotAddr : slotAddr+width]
	if !format.IsPointer(slot[0]) {
		return Value{buf: containerBuf, addr: slotAddr, doc: doc}
	}
	wide := width == format.WideHeaderSize
	target, extern, ok := format.DecodePointer(slotAddr, slot, wide)
	if !ok {
		return Value{}
	}
	if !extern {
		return Value{buf: containerBuf, addr: target, doc: doc}
	}
	if doc == nil {
		return Value{}
	}
	buf, local, ok := doc.resolveCombined(target)
	if !ok {
		return Value{}
	}
	return Value{buf: buf, addr: local, doc: doc}
}

func containerHeader(v Value) (count int, wide bool, ok bool) {
	if v.buf == nil || v.addr+format.HeaderSize > len(v.buf) {
		return 0, false, false
	}
	count, wide = format.DecodeContainerHeader(v.buf[v.addr], v.buf[v.addr+1])
	return count, wide, true
}
