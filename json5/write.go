package json5

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/gofleece/fleece/fleece"
)

// ToJSON renders v as ordinary (non-canonical) UTF-8 JSON, preserving the
// dict's own stored key order rather than re-sorting it.
func ToJSON(v fleece.Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v fleece.Value) {
	switch v.Type() {
	case fleece.TypeUndefined, fleece.TypeNull:
		b.WriteString("null")
	case fleece.TypeBool:
		if v.AsBool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case fleece.TypeInt:
		b.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case fleece.TypeUInt:
		b.WriteString(strconv.FormatUint(v.AsUnsigned(), 10))
	case fleece.TypeFloat32:
		b.WriteString(strconv.FormatFloat(float64(v.AsFloat32()), 'g', -1, 32))
	case fleece.TypeFloat64:
		b.WriteString(strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64))
	case fleece.TypeString:
		writeJSONString(b, v.AsString())
	case fleece.TypeData:
		writeJSONString(b, base64.StdEncoding.EncodeToString(v.AsData()))
	case fleece.TypeArray:
		arr, _ := v.AsArray()
		b.WriteByte('[')
		for i := 0; i < arr.Count(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, arr.Get(i))
		}
		b.WriteByte(']')
	case fleece.TypeDict:
		dict, _ := v.AsDict()
		b.WriteByte('{')
		it := dict.Iterator()
		first := true
		for it.Next() {
			if !first {
				b.WriteByte(',')
			}
			first = false
			writeJSONString(b, it.Key())
			b.WriteByte(':')
			writeValue(b, it.Value())
		}
		b.WriteByte('}')
	}
}

func writeJSONString(b *strings.Builder, s string) {
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
}
