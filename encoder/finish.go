package encoder

import "github.com/gofleece/fleece/internal/format"

// Finish completes the document: if the last value written is still an
// unmaterialized inline scalar, it is written out as a real addressable
// value, then the 2-byte trailer is appended pointing at it. Finish fails
// if the encoder is poisoned, nothing was ever written, or a container is
// still open.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) != 0 {
		e.fail("fleece: Finish called with an open array or dict")
		return nil, e.err
	}
	if !e.hasLast {
		e.fail("fleece: Finish called before any value was written")
		return nil, e.err
	}

	rootAddr := e.lastAddr
	if e.lastVal.isInline {
		rootAddr = e.append(e.lastVal.inline[:])
	}

	fromAddr := e.curAddr()
	trailer := make([]byte, format.TrailerSize)
	if !format.EncodePointer(trailer, fromAddr, rootAddr, false, false) {
		e.fail("fleece: root value too far from the trailer to address")
		return nil, e.err
	}
	e.append(trailer)

	if e.sink != nil {
		if err := e.flushToSink(); err != nil {
			return nil, err
		}
	}
	e.finished = true
	return e.buf, nil
}

// LastValueWritten reports the address of the most recently completed
// value, for use with WriteValueAgain.
func (e *Encoder) LastValueWritten() (addr int, ok bool) {
	if !e.hasLast || e.lastVal.isInline {
		return 0, false
	}
	return e.lastAddr, true
}

// WriteValueAgain records a second reference to the out-of-line value at
// addr (as returned by LastValueWritten) without re-encoding its bytes,
// cheaply aliasing it into the current container (spec.md §4.5).
func (e *Encoder) WriteValueAgain(addr int) {
	if !e.checkWritable() {
		return
	}
	e.recordChild(pendingChild{addr: addr})
}

func (e *Encoder) flushToSink() error {
	if e.tracker == nil {
		return nil
	}
	if err := e.tracker.Flush(e.sink, e.buf); err != nil {
		e.fail("fleece: sink flush failed: %v", err)
		return e.err
	}
	return nil
}
