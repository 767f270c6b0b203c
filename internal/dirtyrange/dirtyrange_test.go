package dirtyrange

import (
	"bytes"
	"testing"
)

// memWriterAt captures WriteAt calls against an in-memory buffer, growing
// it as needed, so Flush's actual output can be inspected byte for byte.
type memWriterAt struct {
	buf []byte
}

func (m *memWriterAt) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:end], p)
	return len(p), nil
}

func TestTrackerAddAndPending(t *testing.T) {
	tr := NewTracker()
	if tr.Pending() {
		t.Fatalf("expected no pending ranges initially")
	}
	tr.Add(0, 10)
	if !tr.Pending() {
		t.Fatalf("expected pending after Add")
	}
}

func TestTrackerAddIgnoresNonPositiveLength(t *testing.T) {
	tr := NewTracker()
	tr.Add(5, 0)
	tr.Add(5, -3)
	if tr.Pending() {
		t.Fatalf("expected zero/negative-length ranges to be ignored")
	}
}

func TestTrackerFlushWritesDirtyBytes(t *testing.T) {
	src := bytes.Repeat([]byte{0xAA}, 100)
	copy(src[10:20], []byte("0123456789"))

	tr := NewTracker()
	tr.Add(10, 10)

	w := &memWriterAt{}
	if err := tr.Flush(w, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Pending() {
		t.Fatalf("expected no pending ranges after flush")
	}
	if !bytes.Equal(w.buf[10:20], []byte("0123456789")) {
		t.Fatalf("expected flushed bytes to match source, got %q", w.buf[10:20])
	}
}

func TestTrackerCoalescesOverlappingRanges(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 10)
	tr.Add(5, 10)
	merged := tr.coalesce()
	if len(merged) != 1 {
		t.Fatalf("expected overlapping ranges to coalesce into one, got %d: %+v", len(merged), merged)
	}
}

func TestTrackerKeepsDistantRangesSeparate(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 4)
	tr.Add(100000, 4)
	merged := tr.coalesce()
	if len(merged) != 2 {
		t.Fatalf("expected distant ranges to stay separate, got %d: %+v", len(merged), merged)
	}
}

func TestTrackerFlushClipsToBufferBounds(t *testing.T) {
	src := []byte("hello")
	tr := NewTracker()
	tr.Add(2, 100)

	w := &memWriterAt{}
	if err := tr.Flush(w, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(w.buf[2:5], []byte("llo")) {
		t.Fatalf("expected clipped flush, got %q", w.buf)
	}
}

func TestTrackerResetDiscardsRanges(t *testing.T) {
	tr := NewTracker()
	tr.Add(0, 10)
	tr.Reset()
	if tr.Pending() {
		t.Fatalf("expected no pending ranges after Reset")
	}
}

func TestTrackerDebugRangesIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Add(1, 2)
	dbg := tr.DebugRanges()
	dbg[0].Off = 999
	if tr.ranges[0].Off == 999 {
		t.Fatalf("expected DebugRanges to return an independent copy")
	}
}
