// Package json5 parses JSON text directly into an encoder.Encoder (JSON5
// text is first converted to JSON by Rewrite), and renders fleece.Value
// trees back out as JSON or canonical JSON.
//
// The parser is a conventional recursive-descent tokenizer: each token
// drives one encoder call directly rather than building an intermediate
// tree, matching spec.md §4.6. It is hand-written rather than built on
// encoding/json because the encoder needs exact control over which Write*
// call a token becomes (so numeric widths and string dedup work the way
// Encoder intends) and because errors must carry the offending byte offset,
// neither of which the standard decoder exposes.
package json5

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofleece/fleece/encoder"
)

// Error is a JSON/JSON5 syntax error with the byte offset it was found at.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string { return fmt.Sprintf("json: %s (at offset %d)", e.Msg, e.Offset) }

type parser struct {
	text string
	pos  int
	enc  *encoder.Encoder
}

// Parse reads JSON text and emits the equivalent value via enc, calling
// enc.Finish() is left to the caller so multiple documents can share
// encoder options.
func Parse(text string, enc *encoder.Encoder) error {
	p := &parser{text: text, enc: enc}
	p.skipSpace()
	if err := p.parseValue(); err != nil {
		return err
	}
	p.skipSpace()
	if p.pos != len(p.text) {
		return p.errorf("unexpected trailing data")
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &Error{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) {
		switch p.text[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.text) {
		return 0
	}
	return p.text[p.pos]
}

func (p *parser) parseValue() error {
	p.skipSpace()
	if p.pos >= len(p.text) {
		return p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return err
		}
		p.enc.WriteString(s)
		return nil
	case c == 't':
		return p.parseLiteral("true", func() { p.enc.WriteBool(true) })
	case c == 'f':
		return p.parseLiteral("false", func() { p.enc.WriteBool(false) })
	case c == 'n':
		return p.parseLiteral("null", func() { p.enc.WriteNull() })
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseLiteral(word string, emit func()) error {
	if !strings.HasPrefix(p.text[p.pos:], word) {
		return p.errorf("invalid literal, expected %q", word)
	}
	p.pos += len(word)
	emit()
	return nil
}

func (p *parser) parseObject() error {
	start := p.pos
	p.pos++ // '{'
	p.enc.BeginDict()
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		p.enc.EndDict()
		return nil
	}
	for {
		p.skipSpace()
		if p.peek() != '"' {
			return p.errorf("expected string key")
		}
		key, err := p.parseString()
		if err != nil {
			return err
		}
		p.enc.WriteKey(key)
		p.skipSpace()
		if p.peek() != ':' {
			return p.errorf("expected ':' after object key")
		}
		p.pos++
		if err := p.parseValue(); err != nil {
			return err
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
			p.enc.EndDict()
			return nil
		default:
			return p.errorf("expected ',' or '}' in object starting at %d", start)
		}
	}
}

func (p *parser) parseArray() error {
	start := p.pos
	p.pos++ // '['
	p.enc.BeginArray()
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		p.enc.EndArray()
		return nil
	}
	for {
		if err := p.parseValue(); err != nil {
			return err
		}
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			p.enc.EndArray()
			return nil
		default:
			return p.errorf("expected ',' or ']' in array starting at %d", start)
		}
	}
}

func (p *parser) parseString() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var b strings.Builder
	for {
		if p.pos >= len(p.text) {
			return "", p.errorf("unterminated string starting at %d", start)
		}
		c := p.text[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.text) {
				return "", p.errorf("unterminated escape")
			}
			esc := p.text[p.pos]
			switch esc {
			case '"', '\\', '/':
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
				if p.pos+4 >= len(p.text) {
					return "", p.errorf("truncated \\u escape")
				}
				hex := p.text[p.pos+1 : p.pos+5]
				n, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return "", p.errorf("invalid \\u escape %q", hex)
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				return "", p.errorf("invalid escape '\\%c'", esc)
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *parser) parseNumber() error {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.text) && isDigit(p.text[p.pos]) {
		p.pos++
	}
	isFloat := false
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.text) && isDigit(p.text[p.pos]) {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		for p.pos < len(p.text) && isDigit(p.text[p.pos]) {
			p.pos++
		}
	}
	text := p.text[start:p.pos]
	if text == "" || text == "-" {
		return p.errorf("invalid number")
	}
	if !isFloat {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			p.enc.WriteInt(v)
			return nil
		}
		if v, err := strconv.ParseUint(text, 10, 64); err == nil {
			p.enc.WriteUint(v)
			return nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return p.errorf("invalid number %q", text)
	}
	p.enc.WriteFloat64(v)
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
