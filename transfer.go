package pta

import (
	"go/constant"
	"log"

	"github.com/BarrensZeppelin/pta/ir"
)

// frame holds the state of one inner worklist run over a method.
type frame struct {
	method *ir.Method
	// Integer literals flowing into local variables. Rebuilt on every run.
	consts map[*ir.Var]constant.Value
}

func newFrame(m *ir.Method) *frame {
	return &frame{method: m, consts: make(map[*ir.Var]constant.Value)}
}

// indexKey returns the slot an array access through index selects.
func (f *frame) indexKey(index *ir.Var) FieldKey {
	if index == nil {
		return AnyIndex
	}
	if c, ok := f.consts[index]; ok {
		if k, ok := intKey(c); ok {
			return k
		}
	}
	if k, ok := intKey(index.Const); ok {
		return k
	}
	return AnyIndex
}

func intKey(c constant.Value) (FieldKey, bool) {
	if c == nil || c.Kind() != constant.Int {
		return FieldKey{}, false
	}
	i, exact := constant.Int64Val(c)
	if !exact {
		return FieldKey{}, false
	}
	return Index(i), true
}

func (ctx *aContext) fieldSlot(base *ir.Var, field ir.FieldRef) (objs []int, key FieldKey) {
	key = Field(field.Name)
	if base == nil {
		return []int{StaticSlotID(field.Class)}, key
	}
	return ctx.pts.Get(base).IDs(), key
}

// transfer applies the effect of s and reports whether any store changed.
func (ctx *aContext) transfer(f *frame, s ir.Stmt) bool {
	switch s := s.(type) {
	case *ir.New:
		id, ok := ctx.objects.ObjectID(s)
		if !ok {
			ctx.log.Warnf("Allocation without an object id: %v in %v", s, f.method)
			return false
		}
		return ctx.pts.Add(s.LHS, id)

	case *ir.AssignLiteral:
		f.consts[s.LHS] = s.Value
		return false

	case *ir.Copy:
		if s.RHS.Const != nil {
			f.consts[s.LHS] = s.RHS.Const
		} else if c, ok := f.consts[s.RHS]; ok {
			f.consts[s.LHS] = c
		}
		return ctx.pts.AddAll(s.LHS, ctx.pts.Get(s.RHS))

	case *ir.Cast:
		return ctx.pts.AddAll(s.LHS, ctx.pts.Get(s.RHS))

	case *ir.LoadField:
		objs, key := ctx.fieldSlot(s.Base, s.Field)
		var loaded ObjectSet
		for _, obj := range objs {
			loaded.AddAll(ctx.fields.Get(obj, key))
		}
		return ctx.pts.AddAll(s.LHS, &loaded)

	case *ir.StoreField:
		objs, key := ctx.fieldSlot(s.Base, s.Field)
		rhs := ctx.pts.Get(s.RHS)
		changed := false
		for _, obj := range objs {
			changed = ctx.fields.AddAll(obj, key, rhs) || changed
		}
		return changed

	case *ir.LoadArray:
		key := f.indexKey(s.Index)
		var loaded ObjectSet
		for _, obj := range ctx.pts.Get(s.Base).IDs() {
			if key == AnyIndex {
				loaded.AddAll(ctx.fields.AllArrayElements(obj))
			} else {
				loaded.AddAll(ctx.fields.Get(obj, key))
			}
		}
		return ctx.pts.AddAll(s.LHS, &loaded)

	case *ir.StoreArray:
		key := f.indexKey(s.Index)
		rhs := ctx.pts.Get(s.RHS)
		changed := false
		for _, obj := range ctx.pts.Get(s.Base).IDs() {
			changed = ctx.fields.AddAll(obj, key, rhs) || changed
		}
		return changed

	case *ir.Invoke:
		return ctx.invoke(f, s)

	case *ir.Return, *ir.If, *ir.Goto, *ir.Throw, *ir.Nop:
		return false

	default:
		log.Panicf("Unhandled statement: %T %v", s, s)
		return false
	}
}

func (ctx *aContext) invoke(f *frame, call *ir.Invoke) bool {
	changed := false
	var rets ObjectSet
	for _, callee := range ctx.resolver.Resolve(call) {
		ctx.addEdge(f.method, callee)
		if !callee.HasBody() {
			continue
		}

		if call.Base != nil && callee.This != nil {
			changed = ctx.pts.AddAll(callee.This, ctx.pts.Get(call.Base)) || changed
		}

		n := len(call.Args)
		if len(callee.Params) < n {
			n = len(callee.Params)
		}
		for i := 0; i < n; i++ {
			changed = ctx.pts.AddAll(callee.Params[i], ctx.pts.Get(call.Args[i])) || changed
		}

		if call.Result == nil {
			continue
		}

		var ret ObjectSet
		for _, v := range ctx.returnValues(callee) {
			ret.AddAll(ctx.pts.Get(v))
		}
		if ret.IsEmpty() && !call.IsStatic() && call.Base != nil && ctx.returnsThis(callee) {
			ret.AddAll(ctx.pts.Get(call.Base))
		}
		rets.AddAll(&ret)
	}

	if call.Result != nil {
		changed = ctx.pts.AddAll(call.Result, &rets) || changed
	}
	return changed
}

func (ctx *aContext) scanReturns(m *ir.Method) *returnInfo {
	if info, ok := ctx.returns[m]; ok {
		return info
	}

	info := &returnInfo{}
	for _, s := range m.Stmts {
		if ret, ok := s.(*ir.Return); ok && ret.Value != nil {
			info.values = append(info.values, ret.Value)
			if m.This != nil && ret.Value == m.This {
				info.this = true
			}
		}
	}
	ctx.returns[m] = info
	return info
}

// returnValues returns the operands of every value-returning statement of m.
func (ctx *aContext) returnValues(m *ir.Method) []*ir.Var {
	return ctx.scanReturns(m).values
}

// returnsThis reports whether some return statement of m returns its
// receiver.
func (ctx *aContext) returnsThis(m *ir.Method) bool {
	return ctx.scanReturns(m).this
}

type returnInfo struct {
	values []*ir.Var
	this   bool
}
