package main

func alloc(int)
func test(int, any)

type T struct{ f *int }

var (
	sink   *int
	shared T
)

func store(p *int) { sink = p }

func main() {
	alloc(1)
	a := new(int)
	store(a)
	test(1, sink) //@pointsto(1, 1)

	alloc(2)
	b := new(int)
	shared.f = b
	q := &shared
	test(2, q.f) //@pointsto(2, 2)
}
