// Package encoder builds a Fleece document bottom-up: each scalar or
// finished container is appended to a growing buffer, and a container's
// header records a backward-pointer slot table over children already
// written. Amend/Snip/Append let an encoder extend a previously written
// document without recopying it (spec.md §4.5).
//
// Grounded on the teacher's root hive construction idiom (values are
// appended as self-contained cells referenced by offset) and its
// internal/writer package for the Sink split between in-memory and
// file-backed output.
package encoder

import (
	"errors"
	"fmt"

	"github.com/gofleece/fleece/internal/dirtyrange"
	"github.com/gofleece/fleece/sharedkeys"
)

// State is the encoder's current nesting context.
type State int

const (
	StateTopLevel State = iota
	StateInArray
	StateInDictKey
	StateInDictValue
)

// ErrPoisoned names the state of an encoder that has recorded an error.
// The encoder does not return it itself: calls made after the first error
// are ignored, and Err and Finish report that first recorded error.
var ErrPoisoned = errors.New("fleece: encoder is poisoned by a prior error")

// ErrUnsupportedInFileMode is returned by Amend/Snip on a sink-backed
// encoder, which spec.md §4.5 excludes from file-backed mode.
var ErrUnsupportedInFileMode = errors.New("fleece: Amend/Snip are not supported on a file-backed encoder")

var errAmendAfterWrite = errors.New("fleece: Amend must be called before any value is written")

// pendingChild is a value already written (or decided) but not yet placed
// into a parent's slot table: either a 2-byte sequence that fits directly
// inline in a narrow slot, or the address of an out-of-line value.
type pendingChild struct {
	inline   [2]byte
	isInline bool
	addr     int
}

type dictPair struct {
	keyText string
	key     pendingChild
	val     pendingChild
}

type frame struct {
	isDict   bool
	children []pendingChild // array frame
	pairs    []dictPair     // dict frame
	pendKey  *pendingChild
	pendText string
}

// Encoder assembles a Fleece document. The zero value is not usable; call
// New.
type Encoder struct {
	buf   []byte
	stack []*frame
	state State

	err      error
	finished bool

	uniqueStrings bool
	dedup         map[string]int

	keys *sharedkeys.SharedKeys

	hasLast  bool
	lastAddr int
	lastVal  pendingChild

	baseLen        int
	base           []byte
	reuseStrings   bool
	externPointers bool

	sink    Sink
	tracker *dirtyrange.Tracker
	flushed int
}

// Option configures an Encoder at construction time.
type Option func(*Encoder)

// WithUniqueStrings enables string deduplication: repeated identical string
// values are written once and subsequently referenced by pointer.
func WithUniqueStrings() Option {
	return func(e *Encoder) { e.uniqueStrings = true; e.dedup = make(map[string]int) }
}

// WithSharedKeys attaches a SharedKeys registry used to encode eligible
// dict keys as small integers instead of literal strings.
func WithSharedKeys(k *sharedkeys.SharedKeys) Option {
	return func(e *Encoder) { e.keys = k }
}

// WithSink makes Finish also write the finished document to sink; see
// sink.go. The whole document is still built in memory, and nothing is
// written to sink before Finish. Amend/Snip are not supported in this mode.
func WithSink(sink Sink) Option {
	return func(e *Encoder) {
		e.sink = sink
		e.tracker = dirtyrange.NewTracker()
	}
}

// New returns a ready-to-use Encoder.
func New(opts ...Option) *Encoder {
	e := &Encoder{state: StateTopLevel}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf(format, args...)
	}
}

// Err returns the first error the encoder recorded, if any.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) checkWritable() bool {
	if e.err != nil {
		return false
	}
	if e.state == StateInDictKey {
		e.fail("fleece: expected WriteKey, got a value write")
		return false
	}
	return true
}

func (e *Encoder) topFrame() *frame {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// curAddr is the address the next out-of-line append will land at.
func (e *Encoder) curAddr() int { return e.baseLen + len(e.buf) }

func (e *Encoder) append(b []byte) int {
	addr := e.curAddr()
	start := len(e.buf)
	e.buf = append(e.buf, b...)
	if len(b)%2 != 0 {
		// Pointers store half the backward distance, so every value must
		// start at an even address: pad odd-sized values with a zero byte.
		e.buf = append(e.buf, 0)
	}
	if e.tracker != nil {
		e.tracker.Add(start, len(e.buf)-start)
	}
	return addr
}

// recordChild places a finished value (inline or out-of-line) into the
// currently open container, or sets it as the document's sole top-level
// value when the stack is empty.
func (e *Encoder) recordChild(c pendingChild) {
	e.hasLast = true
	e.lastVal = c
	if !c.isInline {
		e.lastAddr = c.addr
	} else {
		e.lastAddr = e.curAddr()
	}

	f := e.topFrame()
	if f == nil {
		return // top-level scalar; Finish will use lastVal/lastAddr directly
	}
	if !f.isDict {
		f.children = append(f.children, c)
		return
	}
	if e.state == StateInDictValue && f.pendKey != nil {
		f.pairs = append(f.pairs, dictPair{keyText: f.pendText, key: *f.pendKey, val: c})
		f.pendKey = nil
		e.state = StateInDictKey
	}
}
