package json5

import (
	canonicaljson "github.com/gibson042/canonicaljson-go"

	"github.com/gofleece/fleece/fleece"
)

// ToCanonicalJSON renders v as RFC 8785-style canonical JSON: object keys
// sorted, numbers normalized, no insignificant whitespace (spec.md §6.2).
// It is implemented by converting v into plain Go values and delegating to
// canonicaljson-go rather than writing a second JSON serializer by hand.
func ToCanonicalJSON(v fleece.Value) ([]byte, error) {
	return canonicaljson.Marshal(toInterface(v))
}

// toInterface converts a fleece.Value tree into the closest native Go
// representation (map[string]interface{}, []interface{}, string, float64,
// int64, uint64, bool, nil) for interop with encoding/json-shaped tooling.
func toInterface(v fleece.Value) any {
	switch v.Type() {
	case fleece.TypeUndefined, fleece.TypeNull:
		return nil
	case fleece.TypeBool:
		return v.AsBool()
	case fleece.TypeInt:
		return v.AsInt()
	case fleece.TypeUInt:
		return v.AsUnsigned()
	case fleece.TypeFloat32, fleece.TypeFloat64:
		return v.AsFloat64()
	case fleece.TypeString:
		return v.AsString()
	case fleece.TypeData:
		return v.AsData()
	case fleece.TypeArray:
		arr, _ := v.AsArray()
		out := make([]any, arr.Count())
		for i := range out {
			out[i] = toInterface(arr.Get(i))
		}
		return out
	case fleece.TypeDict:
		dict, _ := v.AsDict()
		out := make(map[string]any, dict.Count())
		it := dict.Iterator()
		for it.Next() {
			out[it.Key()] = toInterface(it.Value())
		}
		return out
	default:
		return nil
	}
}
