package json5

import "strings"

// Rewrite converts JSON5 text into conforming JSON text, which can then be
// fed to Parse. It is a character-level pass, not a validating parser: it
// handles single-quoted strings, unquoted identifier keys, line/block
// comments, trailing commas, leading '+'/bare-dot numbers, and
// line-continuation backslashes inside strings, but does not otherwise
// check number or string body correctness (spec.md §4.6).
func Rewrite(src string) string {
	var out strings.Builder
	out.Grow(len(src) + len(src)/4)
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i += 2
		case c == '"':
			j := rewriteDoubleQuoted(src, i, &out)
			i = j
		case c == '\'':
			j := rewriteSingleQuoted(src, i, &out)
			i = j
		case c == ',':
			i++
			k := i
			for k < n && isJSONSpace(src[k]) {
				k++
			}
			if k < n && (src[k] == ']' || src[k] == '}') {
				// Drop the trailing comma: write nothing more, let the
				// whitespace through so offsets stay close to the source.
				for i < k {
					out.WriteByte(src[i])
					i++
				}
			} else {
				out.WriteByte(',')
			}
		case isIdentStart(c) && !(i > 0 && isDigit(src[i-1])):
			j := i
			for j < n && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			if word == "true" || word == "false" || word == "null" {
				out.WriteString(word)
			} else {
				out.WriteByte('"')
				out.WriteString(word)
				out.WriteByte('"')
			}
			i = j
		case c == '+' && isJSONNumberStart(src, i+1):
			i++ // drop the leading '+'
		case c == '.' && i+1 < n && isDigit(src[i+1]) && !(i > 0 && isDigit(src[i-1])):
			out.WriteByte('0')
			out.WriteByte('.')
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

func isJSONSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isJSONNumberStart(s string, i int) bool {
	return i < len(s) && (isDigit(s[i]) || s[i] == '.')
}

// rewriteDoubleQuoted copies a JSON5 double-quoted string verbatim, except
// for line-continuation backslashes (a backslash immediately followed by a
// newline), which JSON does not allow and JSON5 treats as "no character".
func rewriteDoubleQuoted(src string, i int, out *strings.Builder) int {
	n := len(src)
	out.WriteByte('"')
	i++
	for i < n {
		c := src[i]
		if c == '"' {
			out.WriteByte('"')
			return i + 1
		}
		if c == '\\' && i+1 < n && src[i+1] == '\n' {
			i += 2
			continue
		}
		if c == '\\' && i+1 < n {
			out.WriteByte(c)
			out.WriteByte(src[i+1])
			i += 2
			continue
		}
		out.WriteByte(c)
		i++
	}
	return i
}

// rewriteSingleQuoted copies a JSON5 single-quoted string as a JSON
// double-quoted one: an embedded '"' is escaped, an escaped "'" is
// un-escaped, and line-continuations are dropped.
func rewriteSingleQuoted(src string, i int, out *strings.Builder) int {
	n := len(src)
	out.WriteByte('"')
	i++
	for i < n {
		c := src[i]
		if c == '\'' {
			out.WriteByte('"')
			return i + 1
		}
		if c == '"' {
			out.WriteByte('\\')
			out.WriteByte('"')
			i++
			continue
		}
		if c == '\\' && i+1 < n && src[i+1] == '\n' {
			i += 2
			continue
		}
		if c == '\\' && i+1 < n && src[i+1] == '\'' {
			out.WriteByte('\'')
			i += 2
			continue
		}
		if c == '\\' && i+1 < n {
			out.WriteByte(c)
			out.WriteByte(src[i+1])
			i += 2
			continue
		}
		out.WriteByte(c)
		i++
	}
	return i
}
