// Package ir defines the intermediate representation consumed by the
// points-to analysis: classes with declared methods, methods with ordered
// statement lists over method-scoped variables, and the class hierarchy
// oracle used for call resolution.
package ir

import (
	"fmt"
	"go/constant"
	"strings"
)

// Modifier is a bit set of method modifiers.
type Modifier uint8

const (
	Static Modifier = 1 << iota
	Abstract
	Native
)

func (m Modifier) String() string {
	var parts []string
	if m&Static != 0 {
		parts = append(parts, "static")
	}
	if m&Abstract != 0 {
		parts = append(parts, "abstract")
	}
	if m&Native != 0 {
		parts = append(parts, "native")
	}
	return strings.Join(parts, " ")
}

// Program is a whole program: an ordered collection of classes.
type Program struct {
	classes []*Class
	byName  map[string]*Class
}

func NewProgram() *Program {
	return &Program{byName: make(map[string]*Class)}
}

func (p *Program) addClass(c *Class) *Class {
	if _, dup := p.byName[c.Name]; dup {
		panic(fmt.Errorf("duplicate class %s", c.Name))
	}
	p.classes = append(p.classes, c)
	p.byName[c.Name] = c
	return c
}

// NewClass declares a class. super may be nil for a hierarchy root.
func (p *Program) NewClass(name string, super *Class, interfaces ...*Class) *Class {
	return p.addClass(&Class{Name: name, Super: super, Interfaces: interfaces})
}

// NewInterface declares an interface. Its methods are usually abstract.
func (p *Program) NewInterface(name string, supers ...*Class) *Class {
	return p.addClass(&Class{Name: name, Interfaces: supers, IsInterface: true})
}

// Class implements Hierarchy.
func (p *Program) Class(name string) *Class {
	return p.byName[name]
}

// Classes returns the classes in declaration order.
func (p *Program) Classes() []*Class {
	return p.classes
}

// Methods returns every declared method of every class in declaration order.
func (p *Program) Methods() []*Method {
	var res []*Method
	for _, c := range p.classes {
		res = append(res, c.methods...)
	}
	return res
}

func (p *Program) Resolve(ref MethodRef) *Method {
	return Resolve(p, ref)
}

type Class struct {
	Name        string
	Super       *Class
	Interfaces  []*Class
	IsInterface bool

	methods []*Method
}

func (c *Class) String() string { return c.Name }

// Methods returns the declared methods of c in declaration order.
func (c *Class) Methods() []*Method { return c.methods }

// Method returns the method declared in c with the given subsignature.
func (c *Class) Method(subsig string) *Method {
	for _, m := range c.methods {
		if m.Subsignature() == subsig {
			return m
		}
	}
	return nil
}

// NewMethod declares a method on c. Parameters are named p0, p1, ... and a
// receiver variable "this" is created unless the method is static.
func (c *Class) NewMethod(name string, mods Modifier, paramTypes ...string) *Method {
	m := &Method{Class: c, Name: name, Modifiers: mods}
	if mods&Static == 0 {
		m.This = m.NewVar("this", c.Name)
	}
	for i, t := range paramTypes {
		m.AddParam(fmt.Sprintf("p%d", i), t)
	}
	c.methods = append(c.methods, m)
	return m
}

type Method struct {
	Class     *Class
	Name      string
	Modifiers Modifier
	Params    []*Var
	// Implicit receiver variable; nil for static methods.
	This  *Var
	Stmts []Stmt

	subsig string
	vars   []*Var
}

func (m *Method) IsStatic() bool   { return m.Modifiers&Static != 0 }
func (m *Method) IsAbstract() bool { return m.Modifiers&Abstract != 0 }
func (m *Method) IsNative() bool   { return m.Modifiers&Native != 0 }

// HasBody reports whether the method has retrievable IR.
func (m *Method) HasBody() bool {
	return !m.IsAbstract() && !m.IsNative() && len(m.Stmts) > 0
}

// Subsignature identifies the method within its class hierarchy.
func (m *Method) Subsignature() string {
	if m.subsig != "" {
		return m.subsig
	}
	types := make([]string, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type
	}
	return m.Name + "(" + strings.Join(types, ",") + ")"
}

func (m *Method) SetSubsignature(subsig string) { m.subsig = subsig }

func (m *Method) Ref() MethodRef {
	return MethodRef{Class: m.Class.Name, Subsignature: m.Subsignature()}
}

func (m *Method) String() string {
	return fmt.Sprintf("<%s: %s>", m.Class.Name, m.Subsignature())
}

// Vars returns every variable created in m.
func (m *Method) Vars() []*Var { return m.vars }

func (m *Method) NewVar(name, typ string) *Var {
	v := &Var{Name: name, Type: typ, Method: m}
	m.vars = append(m.vars, v)
	return v
}

func (m *Method) AddParam(name, typ string) *Var {
	v := m.NewVar(name, typ)
	m.Params = append(m.Params, v)
	return v
}

// Var is a method-scoped variable. Variables are compared by identity.
type Var struct {
	Name   string
	Type   string
	Method *Method
	// Non-nil when the variable denotes a compile-time literal.
	Const constant.Value
}

func (v *Var) String() string {
	if v.Const != nil {
		return v.Const.ExactString()
	}
	return v.Name
}

type FieldRef struct {
	Class string
	Name  string
}

func (f FieldRef) String() string {
	return f.Class + "." + f.Name
}

type MethodRef struct {
	Class        string
	Subsignature string
}

// Name returns the method name part of the subsignature.
func (r MethodRef) Name() string {
	if i := strings.IndexByte(r.Subsignature, '('); i >= 0 {
		return r.Subsignature[:i]
	}
	return r.Subsignature
}

func (r MethodRef) String() string {
	return fmt.Sprintf("<%s: %s>", r.Class, r.Subsignature)
}

// CallKind distinguishes how the callee of an Invoke is bound.
type CallKind uint8

const (
	CallStatic CallKind = iota
	CallVirtual
	CallInterface
	// Instance call bound to the declared method (constructors, super
	// calls, direct method calls).
	CallSpecial
)

func (k CallKind) String() string {
	switch k {
	case CallStatic:
		return "invokestatic"
	case CallVirtual:
		return "invokevirtual"
	case CallInterface:
		return "invokeinterface"
	case CallSpecial:
		return "invokespecial"
	default:
		return fmt.Sprintf("CallKind(%d)", uint8(k))
	}
}
