package fleece

import (
	"strconv"
	"strings"
)

// KeyPath is a compiled path expression for navigating nested Array/Dict
// values, e.g. "addresses[0].city" or "items[-1]" for the last element
// (spec.md §5.1). Compiling once and reusing the result avoids re-parsing
// the path text on every Eval call.
type KeyPath struct {
	components []pathComponent
}

type pathComponent struct {
	isIndex bool
	key     string
	index   int
}

// NewKeyPath compiles path text into a KeyPath. A leading "$." is accepted
// and ignored. A backslash escapes the character that follows it, letting a
// key contain '.', '[' or ']' literally.
func NewKeyPath(path string) (*KeyPath, error) {
	s := strings.TrimPrefix(path, "$.")
	var comps []pathComponent
	var cur strings.Builder
	flushKey := func() {
		if cur.Len() > 0 {
			comps = append(comps, pathComponent{key: cur.String()})
			cur.Reset()
		}
	}
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			if i+1 >= len(s) {
				return nil, newError(ErrKindPath, "trailing backslash in key path", nil)
			}
			cur.WriteByte(s[i+1])
			i += 2
			continue
		case '.':
			flushKey()
			i++
			continue
		case '[':
			flushKey()
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, newError(ErrKindPath, "unterminated '[' in key path", nil)
			}
			numText := s[i+1 : i+end]
			idx, err := strconv.Atoi(numText)
			if err != nil {
				return nil, newError(ErrKindPath, "invalid array index '"+numText+"' in key path", err)
			}
			comps = append(comps, pathComponent{isIndex: true, index: idx})
			i += end + 1
			continue
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flushKey()
	return &KeyPath{components: comps}, nil
}

// Eval navigates root along the path, returning Undefined if any segment is
// missing or the wrong kind of container. A negative array index counts
// from the end, so -1 is the last element (spec.md §5.1).
func (kp *KeyPath) Eval(root Value) Value {
	cur := root
	for _, c := range kp.components {
		if c.isIndex {
			arr, ok := cur.AsArray()
			if !ok {
				return Undefined
			}
			idx := c.index
			if idx < 0 {
				idx += arr.Count()
			}
			cur = arr.Get(idx)
		} else {
			dict, ok := cur.AsDict()
			if !ok {
				return Undefined
			}
			cur = dict.Get(c.key)
		}
		if cur.IsUndefined() {
			return Undefined
		}
	}
	return cur
}

// String renders the KeyPath back to its canonical textual form.
func (kp *KeyPath) String() string {
	var b strings.Builder
	for i, c := range kp.components {
		if c.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(c.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(escapeKeyComponent(c.key))
	}
	return b.String()
}

func escapeKeyComponent(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r == '.' || r == '[' || r == ']' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EvalKeyPath compiles path and evaluates it against root in one call.
func EvalKeyPath(root Value, path string) (Value, error) {
	kp, err := NewKeyPath(path)
	if err != nil {
		return Undefined, err
	}
	return kp.Eval(root), nil
}
