package fleece

// Equal reports whether a and b represent the same logical value: same
// type, same scalar content, or (for Array/Dict) the same number of
// elements/entries each of which is itself Equal. Key order does not
// affect dict equality; Fleece's own ordering (spec.md §3.5) is a storage
// detail, not part of a dict's value.
func Equal(a, b Value) bool {
	if a.IsUndefined() || b.IsUndefined() {
		return a.IsUndefined() == b.IsUndefined()
	}
	ta, tb := a.Type(), b.Type()
	if ta != tb {
		if isNumeric(ta) && isNumeric(tb) {
			return numericEqual(a, b)
		}
		return false
	}
	switch ta {
	case TypeNull:
		return true
	case TypeBool:
		return a.AsBool() == b.AsBool()
	case TypeInt, TypeUInt:
		return numericEqual(a, b)
	case TypeFloat32, TypeFloat64:
		return a.AsFloat64() == b.AsFloat64()
	case TypeString:
		return a.AsString() == b.AsString()
	case TypeData:
		return bytesEqual(a.AsData(), b.AsData())
	case TypeArray:
		aa, _ := a.AsArray()
		ba, _ := b.AsArray()
		if aa.Count() != ba.Count() {
			return false
		}
		for i := 0; i < aa.Count(); i++ {
			if !Equal(aa.Get(i), ba.Get(i)) {
				return false
			}
		}
		return true
	case TypeDict:
		ad, _ := a.AsDict()
		bd, _ := b.AsDict()
		if ad.Count() != bd.Count() {
			return false
		}
		it := ad.Iterator()
		for it.Next() {
			if !Equal(it.Value(), bd.Get(it.Key())) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNumeric(t ValueType) bool {
	return t == TypeInt || t == TypeUInt
}

func numericEqual(a, b Value) bool {
	if a.IsUnsigned() || b.IsUnsigned() {
		return a.AsUnsigned() == b.AsUnsigned()
	}
	return a.AsInt() == b.AsInt()
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
