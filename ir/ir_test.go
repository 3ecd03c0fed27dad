package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchy(t *testing.T) {
	prog := NewProgram()
	object := prog.NewClass("Object", nil)
	shape := prog.NewInterface("Shape")
	shapeArea := shape.NewMethod("area", Abstract)
	parent := prog.NewClass("Parent", object, shape)
	parentGet := parent.NewMethod("get", 0)
	parentGet.Return(parentGet.This)
	parentArea := parent.NewMethod("area", Abstract)
	child := prog.NewClass("Child", parent)
	childArea := child.NewMethod("area", 0)
	childArea.Return(nil)

	t.Run("Resolve", func(t *testing.T) {
		assert.Same(t, parentGet, prog.Resolve(MethodRef{"Child", "get()"}))
		assert.Same(t, childArea, prog.Resolve(MethodRef{"Child", "area()"}))
		assert.Same(t, parentArea, prog.Resolve(MethodRef{"Parent", "area()"}))
		assert.Same(t, shapeArea, prog.Resolve(MethodRef{"Shape", "area()"}))
		assert.Nil(t, prog.Resolve(MethodRef{"Child", "missing()"}))
		assert.Nil(t, prog.Resolve(MethodRef{"Missing", "get()"}))
	})

	t.Run("ResolveThroughInterface", func(t *testing.T) {
		abstractClass := prog.NewClass("Base", object, shape)
		assert.Same(t, shapeArea, prog.Resolve(MethodRef{abstractClass.Name, "area()"}))
	})

	t.Run("Dispatch", func(t *testing.T) {
		assert.Same(t, childArea, Dispatch(child, "area()"))
		assert.Nil(t, Dispatch(parent, "area()"), "abstract methods are not dispatch targets")
		assert.Same(t, parentGet, Dispatch(child, "get()"))
	})

	t.Run("Supers", func(t *testing.T) {
		assert.Equal(t, []*Class{child, parent, object}, Supers(child))
	})

	t.Run("DuplicateClass", func(t *testing.T) {
		assert.Panics(t, func() { prog.NewClass("Child", nil) })
	})
}

func TestMethod(t *testing.T) {
	prog := NewProgram()
	c := prog.NewClass("C", nil)

	m := c.NewMethod("m", Static, "int", "A")
	assert.Nil(t, m.This)
	assert.Len(t, m.Params, 2)
	assert.Equal(t, "m(int,A)", m.Subsignature())
	assert.Equal(t, "m", m.Ref().Name())
	assert.False(t, m.HasBody(), "a method without statements has no body")
	assert.Same(t, m, c.Method("m(int,A)"))

	m.SetSubsignature("m")
	assert.Equal(t, MethodRef{"C", "m"}, m.Ref())

	n := c.NewMethod("n", Native)
	n.Return(nil)
	assert.NotNil(t, n.This)
	assert.False(t, n.HasBody())

	assert.Panics(t, func() {
		m.Invoke(nil, CallVirtual, MethodRef{"C", "n()"}, nil)
	}, "instance calls need a receiver")
}

func TestPrint(t *testing.T) {
	prog := NewProgram()
	a := prog.NewClass("A", nil)
	main := a.NewMethod("main", Static)
	x := main.NewVar("x", "A")
	y := main.NewVar("y", "A")
	arr := main.NewVar("arr", "A[]")
	main.New(x, "A")
	main.StoreField(x, FieldRef{"A", "f"}, x)
	main.LoadStatic(y, FieldRef{"A", "g"})
	main.StoreArray(arr, main.Const(3), y)
	main.Invoke(y, CallVirtual, MethodRef{"A", "id(A)"}, x, y)
	main.Return(y)

	var b strings.Builder
	WriteProgram(&b, prog)
	out := b.String()

	for _, line := range []string{
		"class A",
		"static <A: main()>",
		"0: x = new A",
		"1: x.f = x",
		"2: y = A.g",
		"3: arr[3] = y",
		"4: y = invokevirtual <A: id(A)> x.id(y)",
		"5: return y",
	} {
		require.Contains(t, out, line)
	}
}
