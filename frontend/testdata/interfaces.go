package main

func alloc(int)
func test(int, any)

type Animal interface{ Speak() *int }

type Dog struct{ voice *int }

type Cat struct{ voice *int }

func (d *Dog) Speak() *int { return d.voice }

func (c Cat) Speak() *int { return c.voice }

// Every target of the call in speak receives all of {3, 4} as its
// receiver, so both Speak methods load the voice of either animal.
func speak(a Animal) *int { return a.Speak() }

func main() {
	alloc(1)
	v1 := new(int)
	alloc(2)
	v2 := new(int)

	alloc(3)
	var a Animal = &Dog{voice: v1}
	test(1, a)         //@pointsto(1, 3)
	test(2, a.Speak()) //@pointsto(2, 1, 2)

	alloc(4)
	c := &Cat{voice: v2}
	var b Animal = *c
	test(3, b)         //@pointsto(3, 4)
	test(4, b.Speak()) //@pointsto(4, 1, 2)

	test(5, speak(a)) //@pointsto(5, 1, 2)
	speak(b)

	if d, ok := b.(*Dog); ok {
		test(6, d) //@pointsto(6, 4)
	}
}
