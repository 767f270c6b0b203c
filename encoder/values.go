package encoder

import (
	"github.com/gofleece/fleece/internal/buf"
	"github.com/gofleece/fleece/internal/format"
	"github.com/gofleece/fleece/sharedkeys"
)

func inlineChild(b0, b1 byte) pendingChild {
	return pendingChild{inline: [2]byte{b0, b1}, isInline: true}
}

// WriteNull writes a Null scalar.
func (e *Encoder) WriteNull() { e.writeSpecial(format.SpecialNull) }

// WriteUndefined writes an Undefined scalar. Only meaningful as a dict
// value (writing Undefined at the top level or in an array produces a
// document whose reader sees a hole rather than an element).
func (e *Encoder) WriteUndefined() { e.writeSpecial(format.SpecialUndefined) }

// WriteBool writes a boolean scalar.
func (e *Encoder) WriteBool(v bool) {
	if v {
		e.writeSpecial(format.SpecialTrue)
	} else {
		e.writeSpecial(format.SpecialFalse)
	}
}

func (e *Encoder) writeSpecial(code byte) {
	if !e.checkWritable() {
		return
	}
	var hdr [2]byte
	format.EncodeSpecial(hdr[:], code)
	e.recordChild(inlineChild(hdr[0], hdr[1]))
}

// WriteInt writes a signed integer, using the smallest representation that
// preserves its value (spec.md §4.5).
func (e *Encoder) WriteInt(v int64) {
	if !e.checkWritable() {
		return
	}
	if format.FitsSmallInt(v) {
		var hdr [2]byte
		format.EncodeSmallInt(hdr[:], v)
		e.recordChild(inlineChild(hdr[0], hdr[1]))
		return
	}
	n := format.MinBytesForInt(v)
	out := make([]byte, 1+n)
	out[0] = format.EncodeIntHeader(n, false)
	format.PutIntPayload(out[1:], v)
	addr := e.append(out)
	e.recordChild(pendingChild{addr: addr})
}

// WriteUint writes an unsigned integer.
func (e *Encoder) WriteUint(v uint64) {
	if !e.checkWritable() {
		return
	}
	if v <= uint64(0x7FF) {
		var hdr [2]byte
		format.EncodeSmallInt(hdr[:], int64(v))
		e.recordChild(inlineChild(hdr[0], hdr[1]))
		return
	}
	n := format.MinBytesForUint(v)
	out := make([]byte, 1+n)
	out[0] = format.EncodeIntHeader(n, true)
	format.PutUintPayload(out[1:], v)
	addr := e.append(out)
	e.recordChild(pendingChild{addr: addr})
}

// WriteFloat64 writes a floating-point value, narrowing to float32 when that
// round-trips exactly (spec.md §4.5).
func (e *Encoder) WriteFloat64(v float64) {
	if !e.checkWritable() {
		return
	}
	if format.FitsExactFloat32(v) {
		e.WriteFloat32(float32(v))
		return
	}
	out := make([]byte, 9)
	out[0] = format.EncodeFloatHeader(true)
	buf.PutF64(out[1:], v)
	addr := e.append(out)
	e.recordChild(pendingChild{addr: addr})
}

// WriteFloat32 writes a float32 value directly, bypassing the
// narrowing check WriteFloat64 performs.
func (e *Encoder) WriteFloat32(v float32) {
	if !e.checkWritable() {
		return
	}
	out := make([]byte, 5)
	out[0] = format.EncodeFloatHeader(false)
	buf.PutF32(out[1:], v)
	addr := e.append(out)
	e.recordChild(pendingChild{addr: addr})
}

// WriteString writes a string scalar. If uniqueStrings was enabled and an
// identical string was already written, emits a reference to the prior
// occurrence instead of duplicating the bytes.
func (e *Encoder) WriteString(s string) {
	if !e.checkWritable() {
		return
	}
	e.recordChild(e.encodeText(s, false))
}

// WriteData writes an opaque Data scalar.
func (e *Encoder) WriteData(b []byte) {
	if !e.checkWritable() {
		return
	}
	e.recordChild(e.encodeText(string(b), true))
}

func (e *Encoder) encodeText(s string, isData bool) pendingChild {
	n := len(s)
	if n <= 1 {
		var hdr [2]byte
		used := format.EncodeStringHeader(hdr[:], n, isData)
		copy(hdr[used:], s)
		return inlineChild(hdr[0], hdr[1])
	}
	if !isData && e.dedup != nil {
		if addr, ok := e.dedup[s]; ok {
			return pendingChild{addr: addr}
		}
	}
	hdrLen := format.EncodedHeaderLen(n)
	out := make([]byte, hdrLen+n)
	format.EncodeStringHeader(out, n, isData)
	copy(out[hdrLen:], s)
	addr := e.append(out)
	if e.uniqueStrings && !isData {
		e.dedup[s] = addr
	}
	return pendingChild{addr: addr}
}

// BeginArray opens a new array; values written until the matching EndArray
// become its elements.
func (e *Encoder) BeginArray() {
	if !e.checkWritable() {
		return
	}
	e.stack = append(e.stack, &frame{})
	e.state = StateInArray
}

// EndArray closes the innermost open array, laying out its header and slot
// table and recording it as a child of whatever encloses it.
func (e *Encoder) EndArray() {
	if e.err != nil {
		return
	}
	f := e.popFrame()
	if f == nil || f.isDict {
		e.fail("fleece: EndArray without a matching BeginArray")
		return
	}
	addr, ok := e.layoutContainer(format.TagArray, f.children, nil)
	if !ok {
		return
	}
	e.restoreState()
	e.recordChild(pendingChild{addr: addr})
}

// BeginDict opens a new dict; pairs are written via WriteKey followed by a
// value write, until the matching EndDict.
func (e *Encoder) BeginDict() {
	if !e.checkWritable() {
		return
	}
	e.stack = append(e.stack, &frame{isDict: true})
	e.state = StateInDictKey
}

// WriteKey supplies the key for the next value written in the innermost
// open dict. It is an error outside InDictKey state.
func (e *Encoder) WriteKey(key string) {
	if e.err != nil {
		return
	}
	f := e.topFrame()
	if f == nil || !f.isDict || e.state != StateInDictKey {
		e.fail("fleece: WriteKey outside a dict key position")
		return
	}
	f.pendText = key
	c := e.encodeKey(key)
	f.pendKey = &c
	e.state = StateInDictValue
}

func (e *Encoder) encodeKey(key string) pendingChild {
	if e.keys != nil && sharedkeys.Eligible(key) {
		if id := e.keys.Encode(key, true); id >= 0 {
			var hdr [2]byte
			format.EncodeSmallInt(hdr[:], int64(id))
			return inlineChild(hdr[0], hdr[1])
		}
	}
	return e.encodeText(key, false)
}

// EndDict closes the innermost open dict, sorting its pairs, laying out
// its header and interleaved key/value slot table, and recording it as a
// child of whatever encloses it.
func (e *Encoder) EndDict() {
	if e.err != nil {
		return
	}
	f := e.popFrame()
	if f == nil || !f.isDict {
		e.fail("fleece: EndDict without a matching BeginDict")
		return
	}
	sortPairs(f.pairs)
	children := make([]pendingChild, 0, len(f.pairs)*2)
	for _, p := range f.pairs {
		children = append(children, p.key, p.val)
	}
	addr, ok := e.layoutContainer(format.TagDict, children, nil)
	if !ok {
		return
	}
	e.restoreState()
	e.recordChild(pendingChild{addr: addr})
}

func (e *Encoder) popFrame() *frame {
	n := len(e.stack)
	if n == 0 {
		return nil
	}
	f := e.stack[n-1]
	e.stack = e.stack[:n-1]
	return f
}

func (e *Encoder) restoreState() {
	if len(e.stack) == 0 {
		e.state = StateTopLevel
		return
	}
	if e.topFrame().isDict {
		e.state = StateInDictKey
	} else {
		e.state = StateInArray
	}
}
