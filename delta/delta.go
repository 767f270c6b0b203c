// Package delta implements structural JSON diffs between two Fleece
// values: CreateDelta produces a compact JSON delta document, ApplyDelta
// replays one against a base value to reconstruct the new one.
//
// Grounded on Fleece/Core/Delta.cc (original_source), whose delta shape
// this package preserves exactly (spec.md §4.8): `[v]` for an addition,
// `[]` for a deletion, `[0,v]` for a replacement, `{...}` recursing into
// an unchanged-keys-omitted dict, and `[patch,0,2]` for a string
// sub-diff. The original's "compatible deltas" global is replaced here
// with a per-call Options.Compat flag (spec.md's Open Question §9).
package delta

import (
	"strconv"
	"strings"

	"github.com/gofleece/fleece/encoder"
	"github.com/gofleece/fleece/fleece"
	"github.com/gofleece/fleece/json5"
)

// Options configures delta creation and application.
type Options struct {
	// Compat switches to a JsonDiffPatch-compatible encoding: deletions
	// carry the old value (`[old,0,0]`) and replacements carry both the
	// old and new value (`[old,new]`) instead of a bare 0 placeholder.
	Compat bool
}

func invalidData(msg string) error {
	return &fleece.Error{Kind: fleece.ErrKindInvalidData, Msg: msg, Offset: -1}
}

// CreateDelta computes the structural delta turning old into nuu. changed
// is false when the two values are equal, in which case deltaJSON is nil.
func CreateDelta(old, nuu fleece.Value, opts Options) (deltaJSON []byte, changed bool, err error) {
	text := writeDelta(old, nuu, opts)
	if text == "" {
		return nil, false, nil
	}
	return []byte(text), true, nil
}

// writeDelta returns the JSON delta fragment for the old->nuu transition
// at one position, or "" if nothing changed there. Returning "" all the
// way up a dict recursion is how an all-unchanged sub-dict ends up
// contributing no key to its parent's delta.
func writeDelta(old, nuu fleece.Value, opts Options) string {
	oldAbsent, nuuAbsent := old.IsUndefined(), nuu.IsUndefined()
	switch {
	case oldAbsent && nuuAbsent:
		return ""
	case oldAbsent:
		return "[" + json5.ToJSON(nuu) + "]"
	case nuuAbsent:
		if opts.Compat {
			return "[" + json5.ToJSON(old) + ",0,0]"
		}
		return "[]"
	}

	oldType, nuuType := old.Type(), nuu.Type()
	if oldType == nuuType {
		switch oldType {
		case fleece.TypeDict:
			if text, ok := writeDictDelta(old, nuu, opts); ok {
				return text
			}
			return ""
		case fleece.TypeString:
			if fleece.Equal(old, nuu) {
				return ""
			}
			if patch, ok := createStringDelta(old.AsString(), nuu.AsString(), opts); ok {
				return "[" + quoteJSON(patch) + ",0,2]"
			}
		default:
			if fleece.Equal(old, nuu) {
				return ""
			}
		}
	}

	if opts.Compat {
		return "[" + json5.ToJSON(old) + "," + json5.ToJSON(nuu) + "]"
	}
	return "[0," + json5.ToJSON(nuu) + "]"
}

func writeDictDelta(old, nuu fleece.Value, opts Options) (string, bool) {
	oldDict, _ := old.AsDict()
	nuuDict, _ := nuu.AsDict()

	var pairs []string
	seen := make(map[string]bool, nuuDict.Count())

	it := nuuDict.Iterator()
	for it.Next() {
		key := it.Key()
		seen[key] = true
		text := writeDelta(oldDict.Get(key), it.Value(), opts)
		if text != "" {
			pairs = append(pairs, quoteJSON(key)+":"+text)
		}
	}
	oit := oldDict.Iterator()
	for oit.Next() {
		key := oit.Key()
		if seen[key] {
			continue
		}
		text := writeDelta(oit.Value(), fleece.Undefined, opts)
		if text != "" {
			pairs = append(pairs, quoteJSON(key)+":"+text)
		}
	}
	if len(pairs) == 0 {
		return "", false
	}
	return "{" + strings.Join(pairs, ",") + "}", true
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for len(hex) < 4 {
					hex = "0" + hex
				}
				b.WriteString(hex)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// parseDeltaJSON parses JSON/JSON5 delta text into a standalone Fleece
// document, reusing the json5 parser/encoder pipeline rather than a
// second JSON reader.
func parseDeltaJSON(text string) (*fleece.Doc, error) {
	enc := encoder.New()
	if err := json5.Parse(text, enc); err != nil {
		return nil, err
	}
	data, err := enc.Finish()
	if err != nil {
		return nil, err
	}
	return fleece.NewDoc(data)
}
