// Package frontend translates Go programs in SSA form into the statement
// language of package ir.
//
// Each package becomes a class holding its functions as static methods and
// its globals as static fields. Each named type becomes a class holding the
// methods of its pointer method set. Pointer cells, struct fields, array
// and slice elements, map entries and channel buffers become fields of the
// allocated objects:
//
//	*p     field "*"
//	x.f    field "f"
//	a[i]   array slot i, or the wildcard slot when i is not constant
//	m[k]   array slot k, or the wildcard slot
//	<-ch   field "<-"
//
// A global is a static field holding the object of its memory cell, which is
// allocated by a synthetic "<globals>" method of the package class. Struct
// and array values are identified with the objects they were loaded from,
// and nested aggregates with their enclosing object.
//
// Function values and closures are not modeled.
package frontend

import (
	"errors"
	"fmt"
	"go/types"

	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/BarrensZeppelin/pta/internal/maps"
	"github.com/BarrensZeppelin/pta/internal/queue"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/BarrensZeppelin/pta/preprocess"
)

var ErrNoMainPackage = errors.New("no main package")

// Field names of the pseudo fields of pointer cells and channels.
const (
	PointeeField = "*"
	ChannelField = "<-"
)

// Name of the static method that allocates the cells of globals.
const globalsInit = "<globals>"

type Options struct {
	// Bodyless package-level functions named Markers.Alloc and Markers.Test
	// are calls to the marker class Markers.Class.
	Markers preprocess.Markers
}

// Lowered is the result of lowering an SSA program.
type Lowered struct {
	Program *ir.Program
	// Entries contains the init and main functions of the main packages and
	// the cell initializers of the globals they use.
	Entries []*ir.Method

	methods map[*ssa.Function]*ir.Method
	vars    map[ssa.Value]*ir.Var
}

// Method returns the method fn was lowered to, or nil.
func (l *Lowered) Method(fn *ssa.Function) *ir.Method { return l.methods[fn] }

// Var returns the variable v was lowered to, or nil if v does not occur in
// a lowered function body.
func (l *Lowered) Var(v ssa.Value) *ir.Var { return l.vars[v] }

type lowerer struct {
	ssa     *ssa.Program
	prog    *ir.Program
	markers preprocess.Markers
	initial map[*ssa.Package]struct{}

	methods map[*ssa.Function]*ir.Method
	vars    map[ssa.Value]*ir.Var
	queue   queue.Queue[*ssa.Function]

	// Globals used by lowered code, per package, in order of first use.
	cells  map[*ssa.Package][]*ssa.Global
	celled map[*ssa.Global]bool
}

// Lower translates the built functions of pkgs, and the declarations they
// refer to, into an ir.Program.
func Lower(prog *ssa.Program, pkgs []*ssa.Package, opts Options) (*Lowered, error) {
	mains := ssautil.MainPackages(pkgs)
	if len(mains) == 0 {
		return nil, ErrNoMainPackage
	}

	mk := opts.Markers
	if mk.Class == "" {
		mk.Class = preprocess.DefaultMarkers.Class
	}
	if mk.Alloc == "" {
		mk.Alloc = preprocess.DefaultMarkers.Alloc
	}
	if mk.Test == "" {
		mk.Test = preprocess.DefaultMarkers.Test
	}

	l := &lowerer{
		ssa:     prog,
		prog:    ir.NewProgram(),
		markers: mk,
		methods: make(map[*ssa.Function]*ir.Method),
		vars:    make(map[ssa.Value]*ir.Var),
		cells:   make(map[*ssa.Package][]*ssa.Global),
		celled:  make(map[*ssa.Global]bool),
	}

	marker := l.prog.NewClass(mk.Class, nil)
	for _, name := range [...]string{mk.Alloc, mk.Test} {
		marker.NewMethod(name, ir.Static|ir.Native).SetSubsignature(name)
	}

	pkgs = slices.Clone(pkgs)
	slices.SortFunc(pkgs, func(a, b *ssa.Package) bool {
		return a.Pkg.Path() < b.Pkg.Path()
	})
	l.initial = maps.FromKeys(pkgs)

	for _, pkg := range pkgs {
		l.packageClass(pkg)
		for _, name := range maps.SortedKeys(pkg.Members) {
			switch mem := pkg.Members[name].(type) {
			case *ssa.Function:
				l.method(mem)
			case *ssa.Type:
				if _, isNamed := mem.Type().(*types.Named); isNamed {
					l.classFor(mem.Type())
				}
			}
		}
	}

	for !l.queue.Empty() {
		l.lowerBody(l.queue.Pop())
	}

	res := &Lowered{
		Program: l.prog,
		methods: l.methods,
		vars:    l.vars,
	}
	for _, pkg := range mains {
		for _, name := range [...]string{"init", "main"} {
			if fn := pkg.Func(name); fn != nil {
				res.Entries = append(res.Entries, l.methods[fn])
			}
		}
	}
	used := make([]*ssa.Package, 0, len(l.cells))
	for pkg := range l.cells {
		used = append(used, pkg)
	}
	slices.SortFunc(used, func(a, b *ssa.Package) bool {
		return a.Pkg.Path() < b.Pkg.Path()
	})
	for _, pkg := range used {
		res.Entries = append(res.Entries, l.lowerGlobals(pkg))
	}
	return res, nil
}

func (l *lowerer) isInitial(pkg *ssa.Package) bool {
	_, ok := l.initial[pkg]
	return ok
}

func (l *lowerer) packageClass(pkg *ssa.Package) *ir.Class {
	if c := l.prog.Class(pkg.Pkg.Path()); c != nil {
		return c
	}
	return l.prog.NewClass(pkg.Pkg.Path(), nil)
}

// classFor returns the class of objects of type t, declaring it and its
// methods on first use.
func (l *lowerer) classFor(t types.Type) *ir.Class {
	name := typeName(t)
	if c := l.prog.Class(name); c != nil {
		return c
	}

	if itf, ok := t.Underlying().(*types.Interface); ok {
		c := l.prog.NewInterface(name)
		for i := 0; i < itf.NumMethods(); i++ {
			mname := itf.Method(i).Name()
			c.NewMethod(mname, ir.Abstract).SetSubsignature(mname)
		}
		return c
	}

	c := l.prog.NewClass(name, nil)
	named, ok := t.(*types.Named)
	if !ok || (named.TypeParams().Len() > 0 && named.TypeArgs().Len() == 0) {
		return c
	}

	mset := l.ssa.MethodSets.MethodSet(types.NewPointer(t))
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		var fn *ssa.Function
		if len(sel.Index()) == 1 && named.TypeArgs().Len() == 0 {
			fn = l.ssa.FuncValue(sel.Obj().(*types.Func))
		} else {
			fn = l.ssa.MethodValue(sel)
		}
		if fn != nil {
			l.method(fn)
		}
	}
	return c
}

func (l *lowerer) owner(fn *ssa.Function) *ir.Class {
	if recv := fn.Signature.Recv(); recv != nil {
		return l.classFor(deref(recv.Type()))
	}
	if fn.Pkg != nil {
		return l.packageClass(fn.Pkg)
	}
	if c := l.prog.Class("<shared>"); c != nil {
		return c
	}
	return l.prog.NewClass("<shared>", nil)
}

// method returns the method of fn, declaring it on first use. Bodies of
// functions in the initial packages are queued for lowering.
func (l *lowerer) method(fn *ssa.Function) *ir.Method {
	if m, ok := l.methods[fn]; ok {
		return m
	}
	class := l.owner(fn)
	// Declaring the receiver class may have declared fn.
	if m, ok := l.methods[fn]; ok {
		return m
	}

	subsig := fn.Name()
	if class.Method(subsig) != nil {
		subsig = fn.String()
	}

	var mods ir.Modifier
	if fn.Signature.Recv() == nil {
		mods |= ir.Static
	}
	m := class.NewMethod(fn.Name(), mods)
	m.SetSubsignature(subsig)
	params := fn.Signature.Params()
	for i := 0; i < params.Len(); i++ {
		name := params.At(i).Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("p%d", i)
		}
		m.AddParam(name, params.At(i).Type().String())
	}

	l.methods[fn] = m
	// Wrappers of promoted methods belong to no package.
	if fn.Blocks != nil && (l.isInitial(fn.Pkg) || fn.Pkg == nil && fn.Synthetic != "") {
		l.queue.Push(fn)
	}
	return m
}

// lowerGlobals declares the initializer that allocates the cells of the
// used globals of pkg.
func (l *lowerer) lowerGlobals(pkg *ssa.Package) *ir.Method {
	globals := l.cells[pkg]
	class := l.packageClass(pkg)
	m := class.NewMethod(globalsInit, ir.Static)
	m.SetSubsignature(globalsInit)
	for _, g := range globals {
		cell := m.NewVar("&"+g.Name(), g.Type().String())
		m.New(cell, typeName(deref(g.Type())))
		m.StoreStatic(globalField(g), cell)
	}
	m.Return(nil)
	return m
}

func globalField(g *ssa.Global) ir.FieldRef {
	return ir.FieldRef{Class: g.Pkg.Pkg.Path(), Name: g.Name()}
}

// cell records a use of g.
func (l *lowerer) cell(g *ssa.Global) {
	if !l.celled[g] {
		l.celled[g] = true
		l.cells[g.Pkg] = append(l.cells[g.Pkg], g)
	}
}
