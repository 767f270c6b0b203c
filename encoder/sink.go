package encoder

import (
	"io"
	"os"
)

// Sink is the destination for a file-backed encoder's output. It matches
// io.WriterAt so the dirtyrange tracker can flush arbitrary coalesced
// ranges instead of only ever appending at the tail.
//
// Grounded on the teacher's internal/writer package (MemWriter/FileWriter),
// adapted from a single WriteHive(buf) call to WriteAt calls over the
// tracker's coalesced ranges. The encoder performs that flush once, from
// Finish; it does not write to the sink while the document is being built.
type Sink interface {
	io.WriterAt
}

// FileSink writes encoder output directly to an *os.File.
type FileSink struct {
	f *os.File
}

// NewFileSink opens path for writing (creating or truncating it) and
// returns a Sink over it. The caller is responsible for closing the
// returned FileSink's underlying file once done (Close).
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f}, nil
}

// WriteAt implements io.WriterAt.
func (s *FileSink) WriteAt(p []byte, off int64) (int, error) { return s.f.WriteAt(p, off) }

// Sync flushes the underlying file's contents to stable storage.
func (s *FileSink) Sync() error { return s.f.Sync() }

// Close closes the underlying file.
func (s *FileSink) Close() error { return s.f.Close() }

// MemSink accumulates written bytes in memory, for tests and callers that
// want WithSink's flush code path without opening a real file.
type MemSink struct {
	buf []byte
}

// WriteAt implements io.WriterAt, growing the internal buffer as needed.
func (s *MemSink) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(s.buf) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[off:end], p)
	return len(p), nil
}

// Bytes returns the sink's accumulated content.
func (s *MemSink) Bytes() []byte { return s.buf }
