package ir

import (
	"fmt"
	"go/constant"
)

// This file contains helpers that append statements to a method body.
// They return the appended statement so callers can keep a handle on it.

func (m *Method) Emit(s Stmt) Stmt {
	m.Stmts = append(m.Stmts, s)
	return s
}

// Const returns a fresh literal variable for an integer constant.
func (m *Method) Const(x int64) *Var {
	v := m.NewVar(fmt.Sprintf("%%intconst%d", len(m.vars)), "int")
	v.Const = constant.MakeInt64(x)
	return v
}

func (m *Method) New(lhs *Var, typ string) *New {
	s := &New{LHS: lhs, Type: typ}
	m.Emit(s)
	return s
}

func (m *Method) AssignLiteral(lhs *Var, x constant.Value) *AssignLiteral {
	s := &AssignLiteral{LHS: lhs, Value: x}
	m.Emit(s)
	return s
}

func (m *Method) Copy(lhs, rhs *Var) *Copy {
	s := &Copy{LHS: lhs, RHS: rhs}
	m.Emit(s)
	return s
}

func (m *Method) Cast(lhs, rhs *Var, typ string) *Cast {
	s := &Cast{LHS: lhs, RHS: rhs, Type: typ}
	m.Emit(s)
	return s
}

func (m *Method) LoadField(lhs, base *Var, field FieldRef) *LoadField {
	s := &LoadField{LHS: lhs, Base: base, Field: field}
	m.Emit(s)
	return s
}

func (m *Method) StoreField(base *Var, field FieldRef, rhs *Var) *StoreField {
	s := &StoreField{Base: base, Field: field, RHS: rhs}
	m.Emit(s)
	return s
}

func (m *Method) LoadStatic(lhs *Var, field FieldRef) *LoadField {
	return m.LoadField(lhs, nil, field)
}

func (m *Method) StoreStatic(field FieldRef, rhs *Var) *StoreField {
	return m.StoreField(nil, field, rhs)
}

func (m *Method) LoadArray(lhs, base, index *Var) *LoadArray {
	s := &LoadArray{LHS: lhs, Base: base, Index: index}
	m.Emit(s)
	return s
}

func (m *Method) StoreArray(base, index, rhs *Var) *StoreArray {
	s := &StoreArray{Base: base, Index: index, RHS: rhs}
	m.Emit(s)
	return s
}

func (m *Method) Invoke(result *Var, kind CallKind, method MethodRef, base *Var, args ...*Var) *Invoke {
	if (kind == CallStatic) != (base == nil) {
		panic(fmt.Errorf("%v call to %v with receiver %v", kind, method, base))
	}
	s := &Invoke{Result: result, Kind: kind, Method: method, Base: base, Args: args}
	m.Emit(s)
	return s
}

func (m *Method) InvokeStatic(result *Var, method MethodRef, args ...*Var) *Invoke {
	return m.Invoke(result, CallStatic, method, nil, args...)
}

func (m *Method) Return(v *Var) *Return {
	s := &Return{Value: v}
	m.Emit(s)
	return s
}

func (m *Method) If(cond *Var) *If {
	s := &If{Cond: cond}
	m.Emit(s)
	return s
}

func (m *Method) Goto() *Goto {
	s := &Goto{}
	m.Emit(s)
	return s
}

func (m *Method) Throw(v *Var) *Throw {
	s := &Throw{Value: v}
	m.Emit(s)
	return s
}

func (m *Method) Nop(text string) *Nop {
	s := &Nop{Text: text}
	m.Emit(s)
	return s
}
