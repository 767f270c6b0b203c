// Package builder implements a printf-style constructor for mutable
// Fleece trees: a JSON5 template with '%' holes pulls values from a
// caller-supplied argument list, the way Fleece/Core/Builder.cc drives a
// MutableArray/MutableDict from a C varargs list (spec.md §4.9). Go has
// no va_list, so holes pull from an ordinary `...any` slice instead, with
// each verb coercing its argument the way fmt's own verbs do.
package builder

import "github.com/gofleece/fleece/mutable"

// Build parses format (which must start with '[' or '{') and returns a
// fresh mutable array or dict.
func Build(format string, args ...any) (mutable.Value, error) {
	p := newParser(format, args)
	switch p.peek() {
	case '[':
		arr := mutable.NewMArray(arrayBacking(), p.ctx)
		if err := p.buildIntoArray(arr); err != nil {
			return mutable.Value{}, err
		}
		if err := p.finished(); err != nil {
			return mutable.Value{}, err
		}
		return mutable.ArrayValue(arr), nil
	case '{':
		dict := mutable.NewMDict(dictBacking(), p.ctx)
		if err := p.buildIntoDict(dict); err != nil {
			return mutable.Value{}, err
		}
		if err := p.finished(); err != nil {
			return mutable.Value{}, err
		}
		return mutable.DictValue(dict), nil
	default:
		return mutable.Value{}, p.errorf("only '{...}' or '[...]' allowed at top level")
	}
}

// BuildIntoArray parses format (which must start with '[') and appends
// its elements to the end of arr.
func BuildIntoArray(arr *mutable.MArray, format string, args ...any) error {
	p := newParser(format, args)
	if p.peek() != '[' {
		return p.errorf("expected '['")
	}
	if err := p.buildIntoArray(arr); err != nil {
		return err
	}
	return p.finished()
}

// BuildIntoDict parses format (which must start with '{') and merges its
// entries into dict, overwriting any existing keys of the same name.
func BuildIntoDict(dict *mutable.MDict, format string, args ...any) error {
	p := newParser(format, args)
	if p.peek() != '{' {
		return p.errorf("expected '{'")
	}
	if err := p.buildIntoDict(dict); err != nil {
		return err
	}
	return p.finished()
}
