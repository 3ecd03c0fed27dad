// Package preprocess assigns abstract object identifiers to allocation
// statements and collects the query points of a program.
//
// Programs mark interesting allocations and queries with static calls to a
// marker class:
//
//	Benchmark.alloc(1);   // the next allocation in the method gets id 1
//	A a = new A();
//	Benchmark.test(1, a); // query 1 asks for the points-to set of a
//
// Allocations without a preceding alloc marker get synthetic negative ids.
package preprocess

import (
	"go/constant"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/BarrensZeppelin/pta/ir"
)

// Markers names the marker class and its methods.
type Markers struct {
	Class string `yaml:"class"`
	Alloc string `yaml:"alloc"`
	Test  string `yaml:"test"`
}

var DefaultMarkers = Markers{Class: "Benchmark", Alloc: "alloc", Test: "test"}

type Result struct {
	objIDs   map[*ir.New]int
	objTypes map[int]string

	// Queries maps a query identifier to the variable whose points-to set
	// answers it.
	Queries map[int]*ir.Var
}

// ObjectID returns the identifier assigned to an allocation.
func (r *Result) ObjectID(s *ir.New) (int, bool) {
	id, ok := r.objIDs[s]
	return id, ok
}

// ObjectType returns the declared type of the object with the given id.
func (r *Result) ObjectType(id int) (string, bool) {
	t, ok := r.objTypes[id]
	return t, ok
}

// Objects returns every assigned object identifier in ascending order.
func (r *Result) Objects() []int {
	ids := maps.Keys(r.objTypes)
	slices.Sort(ids)
	return ids
}

func (r *Result) QueryIDs() []int {
	ids := maps.Keys(r.Queries)
	slices.Sort(ids)
	return ids
}

func (mk Markers) matches(s ir.Stmt, name string) (*ir.Invoke, bool) {
	call, ok := s.(*ir.Invoke)
	if !ok || !call.IsStatic() || call.Method.Class != mk.Class || call.Method.Name() != name {
		return nil, false
	}
	return call, true
}

func intLiteral(v *ir.Var) (int, bool) {
	if v == nil || v.Const == nil || v.Const.Kind() != constant.Int {
		return 0, false
	}
	x, exact := constant.Int64Val(v.Const)
	return int(x), exact
}

// Run scans every method with a body of prog. Markers with empty fields are
// filled in from DefaultMarkers.
func Run(prog *ir.Program, mk Markers) *Result {
	if mk.Class == "" {
		mk.Class = DefaultMarkers.Class
	}
	if mk.Alloc == "" {
		mk.Alloc = DefaultMarkers.Alloc
	}
	if mk.Test == "" {
		mk.Test = DefaultMarkers.Test
	}

	res := &Result{
		objIDs:   make(map[*ir.New]int),
		objTypes: make(map[int]string),
		Queries:  make(map[int]*ir.Var),
	}

	synthetic := 0
	for _, m := range prog.Methods() {
		if !m.HasBody() {
			continue
		}

		pending := 0
		for _, s := range m.Stmts {
			if call, ok := mk.matches(s, mk.Alloc); ok {
				if len(call.Args) > 0 {
					if id, ok := intLiteral(call.Args[0]); ok && id > 0 {
						pending = id
					}
				}
				continue
			}

			if call, ok := mk.matches(s, mk.Test); ok {
				if len(call.Args) > 1 {
					if id, ok := intLiteral(call.Args[0]); ok {
						res.Queries[id] = call.Args[1]
					}
				}
				continue
			}

			if alloc, ok := s.(*ir.New); ok {
				id := pending
				if id == 0 {
					synthetic--
					id = synthetic
				}
				pending = 0
				res.objIDs[alloc] = id
				res.objTypes[id] = alloc.Type
			}
		}
	}

	return res
}
