package builder

import (
	"fmt"
	"strings"
)

// Error is a malformed-template or argument-mismatch error, carrying the
// byte offset into the format string so Error renders a caret pointing at
// the offending byte (spec.md §4.9).
type Error struct {
	Format string
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	caret := strings.Repeat(" ", e.Offset) + "^"
	return fmt.Sprintf("builder: %s (at offset %d)\n%s\n%s", e.Msg, e.Offset, e.Format, caret)
}
