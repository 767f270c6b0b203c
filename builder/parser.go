package builder

import (
	"strconv"
	"strings"

	"github.com/gofleece/fleece/fleece"
	"github.com/gofleece/fleece/mutable"
)

// parser walks format left to right, consuming one value from args each
// time it hits a '%' hole, grounded on Fleece/Core/Builder.cc's
// hand-rolled recursive-descent reader over a JSON5-ish grammar.
type parser struct {
	text   string
	pos    int
	args   []any
	argIdx int
	ctx    *mutable.Context
}

func newParser(format string, args []any) *parser {
	return &parser{text: format, args: args, ctx: mutable.NewContext(nil)}
}

func (p *parser) errorf(msg string) error {
	return &Error{Format: p.text, Offset: p.pos, Msg: msg}
}

func (p *parser) errorfAt(offset int, msg string) error {
	return &Error{Format: p.text, Offset: offset, Msg: msg}
}

func (p *parser) nextArg() (any, error) {
	if p.argIdx >= len(p.args) {
		return nil, p.errorf("too few arguments for format string")
	}
	a := p.args[p.argIdx]
	p.argIdx++
	return a, nil
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.text) {
		return 0
	}
	return p.text[p.pos]
}

func (p *parser) get() byte {
	p.skipSpace()
	if p.pos >= len(p.text) {
		return 0
	}
	c := p.text[p.pos]
	p.pos++
	return c
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		if c == '/' && p.pos+1 < len(p.text) && p.text[p.pos+1] == '/' {
			for p.pos < len(p.text) && p.text[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c == '/' && p.pos+1 < len(p.text) && p.text[p.pos+1] == '*' {
			p.pos += 2
			for p.pos+1 < len(p.text) && !(p.text[p.pos] == '*' && p.text[p.pos+1] == '/') {
				p.pos++
			}
			p.pos += 2
			continue
		}
		break
	}
}

func (p *parser) finished() error {
	p.skipSpace()
	if p.pos != len(p.text) {
		return p.errorf("unexpected trailing text after value")
	}
	return nil
}

func (p *parser) expectIdentifier(word string) error {
	if p.pos+len(word) > len(p.text) || p.text[p.pos:p.pos+len(word)] != word {
		return p.errorf("expected '" + word + "'")
	}
	p.pos += len(word)
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) readIdentifier() string {
	start := p.pos
	for p.pos < len(p.text) && isIdentPart(p.text[p.pos]) {
		p.pos++
	}
	return p.text[start:p.pos]
}

func (p *parser) readKey() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.text) {
		return "", p.errorf("expected dict key")
	}
	c := p.text[p.pos]
	if c == '"' || c == '\'' {
		return p.readQuotedString()
	}
	if isIdentStart(c) {
		return p.readIdentifier(), nil
	}
	return "", p.errorf("expected dict key")
}

func (p *parser) readQuotedString() (string, error) {
	quote := p.text[p.pos]
	start := p.pos
	p.pos++
	var b strings.Builder
	for {
		if p.pos >= len(p.text) {
			return "", p.errorfAt(start, "unterminated string literal")
		}
		c := p.text[p.pos]
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.text) {
				return "", p.errorfAt(start, "unterminated string literal")
			}
			esc := p.text[p.pos]
			p.pos++
			switch esc {
			case '"', '\'', '\\', '/':
				b.WriteByte(esc)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 > len(p.text) {
					return "", p.errorfAt(start, "invalid unicode escape")
				}
				n, err := strconv.ParseUint(p.text[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", p.errorfAt(start, "invalid unicode escape")
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				return "", p.errorfAt(p.pos-1, "unknown escape sequence")
			}
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *parser) readLiteralNumber() (mutable.Value, bool, error) {
	start := p.pos
	if p.pos < len(p.text) && (p.text[p.pos] == '-' || p.text[p.pos] == '+') {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		if (c == '+' || c == '-') && p.pos > start {
			prev := p.text[p.pos-1]
			if prev == 'e' || prev == 'E' {
				p.pos++
				continue
			}
		}
		break
	}
	numStr := p.text[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return mutable.Value{}, false, p.errorfAt(start, "invalid number literal")
		}
		return mutable.Float(f), true, nil
	}
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return mutable.Value{}, false, p.errorfAt(start, "invalid number literal")
	}
	return mutable.Int(n), true, nil
}

// buildValue parses one JSON5-or-%-hole value. ok is false when a '%-'
// hole was skipped because its argument carried the type's default.
func (p *parser) buildValue() (mutable.Value, bool, error) {
	c := p.peek()
	switch {
	case c == '[':
		arr := mutable.NewMArray(fleece.Array{}, p.ctx)
		if err := p.buildIntoArray(arr); err != nil {
			return mutable.Value{}, false, err
		}
		return mutable.ArrayValue(arr), true, nil
	case c == '{':
		dict := mutable.NewMDict(fleece.Dict{}, p.ctx)
		if err := p.buildIntoDict(dict); err != nil {
			return mutable.Value{}, false, err
		}
		return mutable.DictValue(dict), true, nil
	case c == 'n':
		if err := p.expectIdentifier("null"); err != nil {
			return mutable.Value{}, false, err
		}
		return mutable.Null(), true, nil
	case c == 't':
		if err := p.expectIdentifier("true"); err != nil {
			return mutable.Value{}, false, err
		}
		return mutable.Bool(true), true, nil
	case c == 'f':
		if err := p.expectIdentifier("false"); err != nil {
			return mutable.Value{}, false, err
		}
		return mutable.Bool(false), true, nil
	case c == '"' || c == '\'':
		s, err := p.readQuotedString()
		if err != nil {
			return mutable.Value{}, false, err
		}
		return mutable.String(s), true, nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.readLiteralNumber()
	case c == '%':
		p.pos++
		return p.putParameter()
	default:
		return mutable.Value{}, false, p.errorf("invalid start of value")
	}
}

func (p *parser) buildIntoArray(arr *mutable.MArray) error {
	if p.get() != '[' {
		return p.errorf("expected '['")
	}
	for p.peek() != ']' {
		v, ok, err := p.buildValue()
		if err != nil {
			return err
		}
		if ok {
			arr.Insert(arr.Count(), v)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			// loop condition handles it
		default:
			return p.errorf("unexpected token after array item")
		}
	}
	p.pos++
	return nil
}

func (p *parser) buildIntoDict(dict *mutable.MDict) error {
	if p.get() != '{' {
		return p.errorf("expected '{'")
	}
	for p.peek() != '}' {
		key, err := p.readKey()
		if err != nil {
			return err
		}
		if p.peek() != ':' {
			return p.errorf("expected ':' after dict key")
		}
		p.pos++
		v, ok, err := p.buildValue()
		if err != nil {
			return err
		}
		if ok {
			dict.Set(key, v)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return p.errorf("unexpected token after dict item")
		}
	}
	p.pos++
	return nil
}
