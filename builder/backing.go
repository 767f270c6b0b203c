package builder

import "github.com/gofleece/fleece/fleece"

// arrayBacking/dictBacking hand a from-scratch MArray/MDict an empty
// immutable view to overlay (the zero Value is Undefined, and an Array or
// Dict built over it reports Count() == 0), so the builder's "fresh root"
// case needs no real backing document at all.
func arrayBacking() fleece.Array {
	arr, _ := fleece.Value{}.AsArray()
	return arr
}

func dictBacking() fleece.Dict {
	dict, _ := fleece.Value{}.AsDict()
	return dict
}
