package fleece

import "fmt"

// ErrKind classifies a Fleece error the way spec.md §7 names the taxonomy,
// grounded on the teacher's pkg/types.ErrKind/Error pair.
type ErrKind int

const (
	ErrKindMemory ErrKind = iota
	ErrKindOutOfRange
	ErrKindInvalidData
	ErrKindEncode
	ErrKindJSON
	ErrKindPath
	ErrKindUnsupported
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindMemory:
		return "MemoryError"
	case ErrKindOutOfRange:
		return "OutOfRange"
	case ErrKindInvalidData:
		return "InvalidData"
	case ErrKindEncode:
		return "EncodeError"
	case ErrKindJSON:
		return "JSONError"
	case ErrKindPath:
		return "PathError"
	case ErrKindUnsupported:
		return "Unsupported"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed Fleece error with an optional underlying cause and, for
// JSON/JSON5 syntax errors, a byte offset into the input (spec.md §7).
type Error struct {
	Kind   ErrKind
	Msg    string
	Offset int // -1 when not applicable
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (at offset %d)", msg, e.Offset)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Offset: -1, Err: cause}
}

// Sentinel errors for the common, argument-less cases; wrap with fmt.Errorf
// or newError when more context is available.
var (
	ErrOutOfRange   = &Error{Kind: ErrKindOutOfRange, Msg: "value out of range", Offset: -1}
	ErrInvalidData  = &Error{Kind: ErrKindInvalidData, Msg: "invalid or corrupt Fleece data", Offset: -1}
	ErrUnsupported  = &Error{Kind: ErrKindUnsupported, Msg: "operation not supported in this mode", Offset: -1}
	ErrNotRetainable = &Error{Kind: ErrKindMemory, Msg: "value has no Doc and cannot be retained", Offset: -1}
)
