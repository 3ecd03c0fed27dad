package main

func alloc(int)
func test(int, any)

func main() {
	alloc(1)
	a := new(int)
	alloc(2)
	b := new(int)

	s := []*int{a, b}
	test(1, s[0]) //@pointsto(1, 1)
	i := len(s) - 1
	test(2, s[i]) //@pointsto(2, 1, 2)

	var arr [2]*int
	arr[1] = a
	test(3, arr[1]) //@pointsto(3, 1)
	test(4, arr[0]) //@pointsto(4)

	m := map[string]*int{}
	m["x"] = a
	test(5, m["y"]) //@pointsto(5, 1)
	for _, v := range m {
		test(6, v) //@pointsto(6, 1)
	}

	ch := make(chan *int, 1)
	ch <- b
	test(7, <-ch) //@pointsto(7, 2)

	t := append([]*int(nil), b)
	test(8, t[0]) //@pointsto(8, 2)

	dst := make([]*int, 1)
	copy(dst, s)
	test(9, dst[0]) //@pointsto(9)
	j := len(dst) - 1
	test(10, dst[j]) //@pointsto(10, 1, 2)
}
