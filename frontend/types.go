package frontend

import (
	"go/types"
)

// PointerLike reports whether values of type t are references to other
// memory. Boxing such a value in an interface does not allocate.
func PointerLike(t types.Type) bool {
	switch t := t.(type) {
	case *types.Pointer,
		*types.Map,
		*types.Chan,
		*types.Slice,
		*types.Interface,
		*types.Signature:
		return true
	case *types.Named:
		return PointerLike(t.Underlying())
	default:
		return false
	}
}

// aggregate reports whether t is a struct or array type. Aggregate values
// are identified with the object they were loaded from.
func aggregate(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Struct, *types.Array:
		return true
	default:
		return false
	}
}

func deref(t types.Type) types.Type {
	if p, ok := t.Underlying().(*types.Pointer); ok {
		return p.Elem()
	}
	return t
}

// typeName returns the class name of objects of type t.
func typeName(t types.Type) string {
	return types.TypeString(t, nil)
}

func isMap(t types.Type) bool {
	_, ok := t.Underlying().(*types.Map)
	return ok
}
