package sharedkeys

import (
	"bytes"
	"fmt"

	"github.com/gofleece/fleece/internal/buf"
)

// StringsInOrder returns the registry's contents as a slice ordered by id,
// the preferred serialization form (an ordered string array, spec.md
// §4.3): encoding it as a Fleece array of strings and decoding it back with
// LoadFromStrings round-trips the full registry.
func (k *SharedKeys) StringsInOrder() []string {
	out := make([]string, len(k.byID))
	copy(out, k.byID)
	return out
}

// LoadFromStrings replaces the registry's contents with names, assigning
// ids in slice order. It is the counterpart to StringsInOrder.
func (k *SharedKeys) LoadFromStrings(names []string) error {
	k.byID = k.byID[:0]
	k.byName = make(map[string]int, len(names))
	for _, s := range names {
		if !Eligible(s) {
			return fmt.Errorf("fleece: shared key %q is not eligible for interning", s)
		}
		if len(k.byID) >= MaxCount {
			return ErrTableFull
		}
		id := len(k.byID)
		k.byID = append(k.byID, s)
		k.byName[s] = id
	}
	return nil
}

// MarshalRaw serializes the registry into the compact raw form: a sequence
// of varint-length-prefixed UTF-8 strings, id order implied by position.
func (k *SharedKeys) MarshalRaw() []byte {
	var out bytes.Buffer
	lenBuf := make([]byte, 10)
	for _, s := range k.byID {
		n := buf.PutVarint(lenBuf, uint64(len(s)))
		out.Write(lenBuf[:n])
		out.WriteString(s)
	}
	return out.Bytes()
}

// UnmarshalRaw loads the registry from the compact raw form written by
// MarshalRaw.
func (k *SharedKeys) UnmarshalRaw(data []byte) error {
	k.byID = k.byID[:0]
	k.byName = make(map[string]int)
	for len(data) > 0 {
		n, used := buf.Varint(data)
		if used == 0 {
			return fmt.Errorf("fleece: truncated shared keys raw block")
		}
		data = data[used:]
		if uint64(len(data)) < n {
			return fmt.Errorf("fleece: truncated shared keys raw block")
		}
		s := string(data[:n])
		data = data[n:]
		if len(k.byID) >= MaxCount {
			return ErrTableFull
		}
		id := len(k.byID)
		k.byID = append(k.byID, s)
		k.byName[s] = id
	}
	return nil
}
