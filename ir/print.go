package ir

import (
	"fmt"
	"io"
)

// WriteMethod writes a listing of m to w.
func WriteMethod(w io.Writer, m *Method) {
	var mods string
	if m.Modifiers != 0 {
		mods = m.Modifiers.String() + " "
	}
	fmt.Fprintf(w, "%s%v\n", mods, m)
	for i, s := range m.Stmts {
		fmt.Fprintf(w, "  %d: %v\n", i, s)
	}
}

// WriteProgram writes a listing of every class and method of p to w.
func WriteProgram(w io.Writer, p *Program) {
	for _, c := range p.Classes() {
		kind := "class"
		if c.IsInterface {
			kind = "interface"
		}
		fmt.Fprintf(w, "%s %s", kind, c.Name)
		if c.Super != nil {
			fmt.Fprintf(w, " extends %s", c.Super.Name)
		}
		fmt.Fprintln(w)
		for _, m := range c.Methods() {
			WriteMethod(w, m)
		}
	}
}
