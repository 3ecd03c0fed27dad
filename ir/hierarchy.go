package ir

// Hierarchy is the class hierarchy oracle.
type Hierarchy interface {
	// Class returns the class with the given fully qualified name, or nil.
	Class(name string) *Class
}

// Resolve returns the method a reference statically denotes: the method
// with the referenced subsignature declared in the referenced class, its
// superclasses or (for abstract declarations) its superinterfaces.
// It returns nil if the reference cannot be resolved.
func Resolve(h Hierarchy, ref MethodRef) *Method {
	c := h.Class(ref.Class)
	if c == nil {
		return nil
	}

	for k := c; k != nil; k = k.Super {
		if m := k.Method(ref.Subsignature); m != nil {
			return m
		}
	}

	visited := map[*Class]bool{}
	var fromInterfaces func(c *Class) *Method
	fromInterfaces = func(c *Class) *Method {
		for _, itf := range c.Interfaces {
			if visited[itf] {
				continue
			}
			visited[itf] = true
			if m := itf.Method(ref.Subsignature); m != nil {
				return m
			}
			if m := fromInterfaces(itf); m != nil {
				return m
			}
		}
		return nil
	}

	for k := c; k != nil; k = k.Super {
		if m := fromInterfaces(k); m != nil {
			return m
		}
	}
	return nil
}

// Dispatch returns the first non-abstract method with the given
// subsignature found on the superclass chain starting at c, or nil.
func Dispatch(c *Class, subsig string) *Method {
	for k := c; k != nil; k = k.Super {
		if m := k.Method(subsig); m != nil && !m.IsAbstract() {
			return m
		}
	}
	return nil
}

// Supers returns c followed by its superclasses, nearest first.
func Supers(c *Class) []*Class {
	var res []*Class
	for k := c; k != nil; k = k.Super {
		res = append(res, k)
	}
	return res
}
