package ir

import (
	"fmt"
	"go/constant"
	"strings"
)

// Stmt is a statement of a method body. The set of statement kinds is
// closed; see the types embedding stag below.
type Stmt interface {
	// method used to tag statement kinds
	stmtTag()
	fmt.Stringer
}

type stag struct{}

func (stag) stmtTag() {}

// New allocates an object: LHS = new Type.
type New struct {
	stag
	LHS  *Var
	Type string
}

func (s *New) String() string { return fmt.Sprintf("%v = new %s", s.LHS, s.Type) }

// AssignLiteral assigns a literal: LHS = Value.
type AssignLiteral struct {
	stag
	LHS   *Var
	Value constant.Value
}

func (s *AssignLiteral) String() string {
	return fmt.Sprintf("%v = %s", s.LHS, s.Value.ExactString())
}

// Copy: LHS = RHS.
type Copy struct {
	stag
	LHS, RHS *Var
}

func (s *Copy) String() string { return fmt.Sprintf("%v = %v", s.LHS, s.RHS) }

// Cast: LHS = (Type) RHS.
type Cast struct {
	stag
	LHS, RHS *Var
	Type     string
}

func (s *Cast) String() string { return fmt.Sprintf("%v = (%s) %v", s.LHS, s.Type, s.RHS) }

// LoadField: LHS = Base.Field, or LHS = Field.Class.Field when Base is nil.
type LoadField struct {
	stag
	LHS   *Var
	Base  *Var
	Field FieldRef
}

func (s *LoadField) IsStatic() bool { return s.Base == nil }

func (s *LoadField) String() string {
	if s.Base == nil {
		return fmt.Sprintf("%v = %v", s.LHS, s.Field)
	}
	return fmt.Sprintf("%v = %v.%s", s.LHS, s.Base, s.Field.Name)
}

// StoreField: Base.Field = RHS, or Field.Class.Field = RHS when Base is nil.
type StoreField struct {
	stag
	Base  *Var
	Field FieldRef
	RHS   *Var
}

func (s *StoreField) IsStatic() bool { return s.Base == nil }

func (s *StoreField) String() string {
	if s.Base == nil {
		return fmt.Sprintf("%v = %v", s.Field, s.RHS)
	}
	return fmt.Sprintf("%v.%s = %v", s.Base, s.Field.Name, s.RHS)
}

// LoadArray: LHS = Base[Index].
type LoadArray struct {
	stag
	LHS, Base, Index *Var
}

func (s *LoadArray) String() string {
	return fmt.Sprintf("%v = %v[%v]", s.LHS, s.Base, s.Index)
}

// StoreArray: Base[Index] = RHS.
type StoreArray struct {
	stag
	Base, Index, RHS *Var
}

func (s *StoreArray) String() string {
	return fmt.Sprintf("%v[%v] = %v", s.Base, s.Index, s.RHS)
}

// Invoke calls Method. Result is nil when the call value is discarded and
// Base is nil for static calls.
type Invoke struct {
	stag
	Result *Var
	Kind   CallKind
	Method MethodRef
	Base   *Var
	Args   []*Var
}

func (s *Invoke) IsStatic() bool { return s.Kind == CallStatic }

func (s *Invoke) String() string {
	var b strings.Builder
	if s.Result != nil {
		fmt.Fprintf(&b, "%v = ", s.Result)
	}
	fmt.Fprintf(&b, "%v %v", s.Kind, s.Method)
	if s.Base != nil {
		fmt.Fprintf(&b, " %v.", s.Base)
	} else {
		b.WriteByte(' ')
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	fmt.Fprintf(&b, "%s(%s)", s.Method.Name(), strings.Join(args, ", "))
	return b.String()
}

// Return exits the method, returning Value unless it is nil.
type Return struct {
	stag
	Value *Var
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %v", s.Value)
}

// If is a conditional branch. Targets are not modeled.
type If struct {
	stag
	Cond *Var
}

func (s *If) String() string { return fmt.Sprintf("if %v goto ...", s.Cond) }

type Goto struct{ stag }

func (*Goto) String() string { return "goto ..." }

type Throw struct {
	stag
	Value *Var
}

func (s *Throw) String() string { return fmt.Sprintf("throw %v", s.Value) }

type Nop struct {
	stag
	Text string
}

func (s *Nop) String() string {
	if s.Text == "" {
		return "nop"
	}
	return "nop // " + s.Text
}
