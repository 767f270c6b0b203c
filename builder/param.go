package builder

import (
	"github.com/gofleece/fleece/fleece"
	"github.com/gofleece/fleece/mutable"
)

// putParameter parses one printf-style '%' verb (the '%' itself already
// consumed) and pulls the next argument to match it.
func (p *parser) putParameter() (mutable.Value, bool, error) {
	c := p.get()
	skipDefault := false
	if c == '-' {
		skipDefault = true
		c = p.get()
	}

	size := byte(' ')
	if c == 'l' || c == 'q' || c == 'z' {
		size = c
		c = p.get()
		if size == 'l' && c == 'l' {
			size = 'q'
			c = p.get()
		}
	}
	_ = size // consumed only to accept l/ll/z prefixes; Go args self-describe their width

	switch c {
	case 'c', 'b':
		arg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		b, err := argBool(arg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		if skipDefault && !b {
			return mutable.Value{}, false, nil
		}
		return mutable.Bool(b), true, nil

	case 'd', 'i':
		arg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		n, err := argInt(arg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		if skipDefault && n == 0 {
			return mutable.Value{}, false, nil
		}
		return mutable.Int(n), true, nil

	case 'u':
		arg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		n, err := argUint(arg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		if skipDefault && n == 0 {
			return mutable.Value{}, false, nil
		}
		return mutable.Uint(n), true, nil

	case 'f':
		arg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		f, err := argFloat(arg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		if skipDefault && f == 0 {
			return mutable.Value{}, false, nil
		}
		return mutable.Float(f), true, nil

	case 's':
		arg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		s, err := argString(arg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		if skipDefault && s == "" {
			return mutable.Value{}, false, nil
		}
		return mutable.String(s), true, nil

	case '.':
		if p.get() != '*' || p.get() != 's' {
			return mutable.Value{}, false, p.errorf("'.' qualifier only supported as '%.*s'")
		}
		lenArg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		n, err := argInt(lenArg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		dataArg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		data, err := argBytes(dataArg)
		if err != nil {
			return mutable.Value{}, false, p.errorf(err.Error())
		}
		if n < 0 || int(n) > len(data) {
			return mutable.Value{}, false, p.errorf("length exceeds argument data")
		}
		data = data[:n]
		if skipDefault && len(data) == 0 {
			return mutable.Value{}, false, nil
		}
		return mutable.Data(data), true, nil

	case 'p':
		arg, err := p.nextArg()
		if err != nil {
			return mutable.Value{}, false, err
		}
		v, ok := arg.(fleece.Value)
		if !ok {
			return mutable.Value{}, false, p.errorf("'%p' requires a fleece.Value argument")
		}
		if skipDefault && v.IsUndefined() {
			return mutable.Value{}, false, nil
		}
		return mutable.FromImmutableValue(v, p.ctx), true, nil

	default:
		return mutable.Value{}, false, p.errorf("unknown '%' format specifier")
	}
}
