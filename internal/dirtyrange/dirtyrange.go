// Package dirtyrange tracks which byte ranges of an in-progress encode have
// changed since the last flush, coalesces them, and writes only those
// ranges out. It backs encoder.FileSink's incremental flush (spec.md §4.4).
//
// Grounded on the teacher's hive/dirty package: the same Range-slice +
// page-align + sort + merge coalescing strategy, adapted from
// msync/FlushViewOfFile (the teacher flushes an mmap) to io.WriterAt, since
// Fleece's encoder owns a plain growable buffer rather than a memory map
// (SPEC_FULL.md's dropped-dependency note on golang.org/x/sys).
package dirtyrange

import (
	"io"
	"sort"
)

const defaultRangeCapacity = 64

// alignment is the granularity ranges are rounded to before coalescing;
// unlike a page-aligned mmap flush there is no hardware constraint here, so
// this just bounds how many separate WriteAt calls a flush needs.
const alignment = 4096

// Range is a dirty byte range, in offsets relative to the buffer's start.
type Range struct {
	Off int
	Len int
}

// Tracker accumulates dirty ranges produced by buffer writes and appends,
// and flushes them to an io.WriterAt in as few calls as coalescing allows.
//
// Not safe for concurrent use.
type Tracker struct {
	ranges []Range
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{ranges: make([]Range, 0, defaultRangeCapacity)}
}

// Add records that [off, off+length) has changed.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Reset discards all tracked ranges without flushing them.
func (t *Tracker) Reset() { t.ranges = t.ranges[:0] }

// Pending reports whether any range is awaiting flush.
func (t *Tracker) Pending() bool { return len(t.ranges) > 0 }

// Flush writes every coalesced dirty range from buf out to w, then clears
// the tracked ranges. Ranges outside buf's current bounds are clipped.
func (t *Tracker) Flush(w io.WriterAt, buf []byte) error {
	if len(t.ranges) == 0 {
		return nil
	}
	for _, r := range t.coalesce() {
		end := r.Off + r.Len
		if end > len(buf) {
			end = len(buf)
		}
		if r.Off >= end {
			continue
		}
		if _, err := w.WriteAt(buf[r.Off:end], int64(r.Off)); err != nil {
			return err
		}
	}
	t.ranges = t.ranges[:0]
	return nil
}

// DebugRanges returns a copy of the raw, uncoalesced tracked ranges.
func (t *Tracker) DebugRanges() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}
	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / alignment) * alignment
		end := r.Off + r.Len
		if end%alignment != 0 {
			end = (end/alignment + 1) * alignment
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}
	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Off < aligned[j].Off })

	merged := make([]Range, 0, len(aligned))
	cur := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= cur.Off+cur.Len {
			end := cur.Off + cur.Len
			if nextEnd := next.Off + next.Len; nextEnd > end {
				end = nextEnd
			}
			cur.Len = end - cur.Off
		} else {
			merged = append(merged, cur)
			cur = next
		}
	}
	merged = append(merged, cur)
	return merged
}
