package format

import "errors"

// Sentinel errors returned by the codec. Callers doing untrusted decodes
// should treat all of these as equivalent to spec.md's InvalidData kind;
// callers in trusted mode never see them (checks are skipped).
var (
	ErrTruncated     = errors.New("fleece: value header runs past end of data")
	ErrBadPointer    = errors.New("fleece: pointer target out of bounds")
	ErrBadContainer  = errors.New("fleece: container extends past end of data")
	ErrBadString     = errors.New("fleece: string length exceeds available data")
	ErrBadTrailer    = errors.New("fleece: missing or malformed document trailer")
	ErrBadTag        = errors.New("fleece: unrecognized value tag")
	ErrForwardPointer = errors.New("fleece: pointer target is not strictly backward")
)
