package main

func alloc(int)
func test(int, any)
func ubool() bool

type T struct {
	f *int
	g *T
}

func id(x *T) *T { return x }

func main() {
	alloc(1)
	a := new(int)
	alloc(2)
	b := new(int)
	alloc(3)
	x := &T{f: a}
	x.g = x
	y := id(x)
	test(1, y)     //@pointsto(1, 3)
	test(2, y.g.f) //@pointsto(2, 1)

	p := a
	if ubool() {
		p = b
	}
	test(3, p) //@pointsto(3, 1, 2)
	test(4, x.g.g.g) //@pointsto(4, 3)
}
