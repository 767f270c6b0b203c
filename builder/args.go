package builder

import "fmt"

// argBool/argInt/argUint/argFloat/argString/argBytes coerce one builder
// argument to the type a format verb calls for. Go has no va_arg type
// promotion to lean on, so each accepts the reasonable set of concrete Go
// types a caller might naturally pass for that verb (int family for %d,
// unsigned family for %u, and so on) the way fmt's own verbs do.

func argBool(v any) (bool, error) {
	switch n := v.(type) {
	case bool:
		return n, nil
	case int:
		return n != 0, nil
	case int64:
		return n != 0, nil
	default:
		return false, fmt.Errorf("builder: argument is not bool-like: %T", v)
	}
}

func argInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("builder: argument is not integer-like: %T", v)
	}
}

func argUint(v any) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case int:
		return uint64(n), nil
	case int64:
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("builder: argument is not unsigned-integer-like: %T", v)
	}
}

func argFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("builder: argument is not float-like: %T", v)
	}
}

func argString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("builder: argument is not string-like: %T", v)
	}
}

func argBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return nil, fmt.Errorf("builder: argument is not byte-slice-like: %T", v)
	}
}
