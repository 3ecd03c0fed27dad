package frontend

import (
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/BarrensZeppelin/pta/internal/slices"
	"github.com/BarrensZeppelin/pta/ir"
)

type fnLowerer struct {
	*lowerer
	fn *ssa.Function
	m  *ir.Method

	locals map[ssa.Value]*ir.Var
}

func (l *lowerer) lowerBody(fn *ssa.Function) {
	m := l.methods[fn]
	b := &fnLowerer{
		lowerer: l,
		fn:      fn,
		m:       m,
		locals:  make(map[ssa.Value]*ir.Var),
	}

	params := fn.Params
	if m.This != nil && len(params) > 0 {
		b.bind(params[0], m.This)
		params = params[1:]
	}
	for i, p := range params {
		if i < len(m.Params) {
			b.bind(p, m.Params[i])
		}
	}

	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instrs {
			b.instr(instr)
		}
	}
}

func (b *fnLowerer) bind(v ssa.Value, x *ir.Var) {
	b.locals[v] = x
	b.vars[v] = x
}

// value returns the variable holding v in the current method.
func (b *fnLowerer) value(v ssa.Value) *ir.Var {
	if x, ok := b.locals[v]; ok {
		return x
	}

	x := b.m.NewVar(v.Name(), v.Type().String())
	switch v := v.(type) {
	case *ssa.Const:
		x.Const = v.Value
		b.locals[v] = x
	case *ssa.Global:
		b.cell(v)
		b.locals[v] = x
		b.m.LoadStatic(x, globalField(v))
	case *ssa.Function, *ssa.Builtin:
		b.locals[v] = x
	default:
		b.bind(v, x)
	}
	return x
}

func (b *fnLowerer) values(vs []ssa.Value) []*ir.Var {
	return slices.Map(vs, b.value)
}

func (b *fnLowerer) temp(typ types.Type) *ir.Var {
	return b.m.NewVar("%tmp", typ.String())
}

// fused reports whether every use of an address dereferences it, so that
// loads and stores through it can directly access the selected field.
// Addresses of aggregates are identified with their base instead.
func fused(addr ssa.Value) bool {
	if aggregate(deref(addr.Type())) {
		return false
	}
	for _, use := range *addr.Referrers() {
		switch use := use.(type) {
		case *ssa.Store:
			if use.Addr != addr || use.Val == addr {
				return false
			}
		case *ssa.UnOp:
			if use.Op != token.MUL {
				return false
			}
		case *ssa.DebugRef:
		default:
			return false
		}
	}
	return true
}

func fieldRef(st types.Type, field int) ir.FieldRef {
	s := st.Underlying().(*types.Struct)
	return ir.FieldRef{Class: typeName(st), Name: s.Field(field).Name()}
}

func pointee(addr ssa.Value) ir.FieldRef {
	return ir.FieldRef{Class: typeName(deref(addr.Type())), Name: PointeeField}
}

func channel(ch ssa.Value) ir.FieldRef {
	return ir.FieldRef{Class: typeName(ch.Type()), Name: ChannelField}
}

func (b *fnLowerer) alloc(v ssa.Value, t types.Type) {
	if _, ok := t.(*types.Named); ok {
		b.classFor(t)
	}
	b.m.New(b.value(v), typeName(t))
}

func (b *fnLowerer) instr(instr ssa.Instruction) {
	switch instr := instr.(type) {
	case *ssa.Alloc:
		b.alloc(instr, deref(instr.Type()))

	case *ssa.MakeSlice:
		b.alloc(instr, instr.Type())
	case *ssa.MakeMap:
		b.alloc(instr, instr.Type())
	case *ssa.MakeChan:
		b.alloc(instr, instr.Type())

	case *ssa.MakeInterface:
		if t := instr.X.Type(); PointerLike(t) || aggregate(t) {
			b.m.Copy(b.value(instr), b.value(instr.X))
		} else {
			b.alloc(instr, t)
		}

	case *ssa.UnOp:
		switch instr.Op {
		case token.MUL:
			b.load(instr, instr.X)
		case token.ARROW:
			b.m.LoadField(b.value(instr), b.value(instr.X), channel(instr.X))
		}

	case *ssa.Send:
		b.m.StoreField(b.value(instr.Chan), channel(instr.Chan), b.value(instr.X))

	case *ssa.Store:
		b.store(instr.Addr, instr.Val)

	case *ssa.FieldAddr:
		if !fused(instr) {
			b.m.Copy(b.value(instr), b.value(instr.X))
		}
	case *ssa.IndexAddr:
		if !fused(instr) {
			b.m.Copy(b.value(instr), b.value(instr.X))
		}

	case *ssa.Field:
		if aggregate(instr.Type()) {
			b.m.Copy(b.value(instr), b.value(instr.X))
		} else {
			b.m.LoadField(b.value(instr), b.value(instr.X), fieldRef(instr.X.Type(), instr.Field))
		}
	case *ssa.Index:
		if aggregate(instr.Type()) {
			b.m.Copy(b.value(instr), b.value(instr.X))
		} else {
			b.m.LoadArray(b.value(instr), b.value(instr.X), b.value(instr.Index))
		}

	case *ssa.Lookup:
		if isMap(instr.X.Type()) {
			b.m.LoadArray(b.value(instr), b.value(instr.X), b.value(instr.Index))
		}
	case *ssa.MapUpdate:
		b.m.StoreArray(b.value(instr.Map), b.value(instr.Key), b.value(instr.Value))
	case *ssa.Range:
		b.m.Copy(b.value(instr), b.value(instr.X))
	case *ssa.Next:
		if !instr.IsString {
			b.m.LoadArray(b.value(instr), b.value(instr.Iter), nil)
		}

	case *ssa.Phi:
		b.phi(instr)

	case *ssa.Extract:
		b.m.Copy(b.value(instr), b.value(instr.Tuple))
	case *ssa.ChangeType:
		b.m.Copy(b.value(instr), b.value(instr.X))
	case *ssa.ChangeInterface:
		b.m.Copy(b.value(instr), b.value(instr.X))
	case *ssa.Convert:
		b.m.Copy(b.value(instr), b.value(instr.X))
	case *ssa.Slice:
		b.m.Copy(b.value(instr), b.value(instr.X))
	case *ssa.SliceToArrayPointer:
		b.m.Copy(b.value(instr), b.value(instr.X))
	case *ssa.TypeAssert:
		b.m.Cast(b.value(instr), b.value(instr.X), typeName(instr.AssertedType))

	case *ssa.Call:
		b.call(instr, instr.Common())
	case *ssa.Go:
		b.call(nil, instr.Common())
	case *ssa.Defer:
		b.call(nil, instr.Common())

	case *ssa.Return:
		if len(instr.Results) == 0 {
			b.m.Return(nil)
		}
		for _, r := range instr.Results {
			b.m.Return(b.value(r))
		}
	case *ssa.If:
		b.m.If(b.value(instr.Cond))
	case *ssa.Jump:
		b.m.Goto()
	case *ssa.Panic:
		b.m.Throw(b.value(instr.X))
	}
}

func (b *fnLowerer) load(res, addr ssa.Value) {
	lhs := b.value(res)
	switch addr := addr.(type) {
	case *ssa.FieldAddr:
		if fused(addr) {
			b.m.LoadField(lhs, b.value(addr.X), fieldRef(deref(addr.X.Type()), addr.Field))
			return
		}
	case *ssa.IndexAddr:
		if fused(addr) {
			b.m.LoadArray(lhs, b.value(addr.X), b.value(addr.Index))
			return
		}
	}

	if aggregate(res.Type()) {
		b.m.Copy(lhs, b.value(addr))
	} else {
		b.m.LoadField(lhs, b.value(addr), pointee(addr))
	}
}

func (b *fnLowerer) store(addr, val ssa.Value) {
	rhs := b.value(val)
	switch addr := addr.(type) {
	case *ssa.FieldAddr:
		if fused(addr) {
			b.m.StoreField(b.value(addr.X), fieldRef(deref(addr.X.Type()), addr.Field), rhs)
			return
		}
	case *ssa.IndexAddr:
		if fused(addr) {
			b.m.StoreArray(b.value(addr.X), b.value(addr.Index), rhs)
			return
		}
	}

	if aggregate(val.Type()) {
		b.m.Copy(b.value(addr), rhs)
	} else {
		b.m.StoreField(b.value(addr), pointee(addr), rhs)
	}
}

// phi lowers to a literal assignment when every edge is the same constant.
func (b *fnLowerer) phi(phi *ssa.Phi) {
	lhs := b.value(phi)
	if c := sameConst(phi.Edges); c != nil {
		b.m.AssignLiteral(lhs, c)
		return
	}
	for _, e := range phi.Edges {
		b.m.Copy(lhs, b.value(e))
	}
}

func sameConst(edges []ssa.Value) constant.Value {
	var res constant.Value
	for _, e := range edges {
		c, ok := e.(*ssa.Const)
		if !ok || c.Value == nil {
			return nil
		}
		if res == nil {
			res = c.Value
		} else if res.Kind() != c.Value.Kind() || res.ExactString() != c.Value.ExactString() {
			return nil
		}
	}
	return res
}

func (b *fnLowerer) call(res ssa.Value, c *ssa.CallCommon) {
	var lhs *ir.Var
	if res != nil {
		lhs = b.value(res)
	}

	if c.IsInvoke() {
		itf := b.classFor(c.Value.Type())
		ref := ir.MethodRef{Class: itf.Name, Subsignature: c.Method.Name()}
		b.m.Invoke(lhs, ir.CallInterface, ref, b.value(c.Value), b.values(c.Args)...)
		return
	}

	switch callee := c.Value.(type) {
	case *ssa.Builtin:
		b.builtin(lhs, callee, c.Args)

	case *ssa.Function:
		if b.isMarker(callee) {
			ref := ir.MethodRef{Class: b.markers.Class, Subsignature: callee.Name()}
			b.m.InvokeStatic(lhs, ref, b.values(c.Args)...)
			return
		}

		m := b.method(callee)
		if callee.Signature.Recv() != nil && len(c.Args) > 0 {
			b.m.Invoke(lhs, ir.CallSpecial, m.Ref(), b.value(c.Args[0]), b.values(c.Args[1:])...)
		} else {
			b.m.InvokeStatic(lhs, m.Ref(), b.values(c.Args)...)
		}

	default:
		b.m.Nop(c.String())
	}
}

func (b *fnLowerer) isMarker(fn *ssa.Function) bool {
	return fn.Blocks == nil && fn.Parent() == nil && b.isInitial(fn.Pkg) &&
		fn.Signature.Recv() == nil &&
		(fn.Name() == b.markers.Alloc || fn.Name() == b.markers.Test)
}

func (b *fnLowerer) builtin(lhs *ir.Var, fn *ssa.Builtin, args []ssa.Value) {
	switch fn.Name() {
	case "append":
		if lhs == nil {
			lhs = b.temp(args[0].Type())
		}
		b.m.Copy(lhs, b.value(args[0]))
		if len(args) > 1 {
			// Literal-index loads from the result see the element slots of
			// the appended slice.
			if _, ok := args[1].Type().Underlying().(*types.Slice); ok {
				b.m.Copy(lhs, b.value(args[1]))
			}
			b.elems(lhs, args[1])
		}
	case "copy":
		b.elems(b.value(args[0]), args[1])
	case "ssa:wrapnilchk":
		if lhs != nil {
			b.m.Copy(lhs, b.value(args[0]))
		}
	}
}

// elems copies every element of src into the wildcard slot of dst.
func (b *fnLowerer) elems(dst *ir.Var, src ssa.Value) {
	tmp := b.temp(src.Type())
	b.m.LoadArray(tmp, b.value(src), nil)
	b.m.StoreArray(dst, nil, tmp)
}
