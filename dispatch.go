package pta

import (
	"github.com/BarrensZeppelin/pta/internal/slices"
	"github.com/BarrensZeppelin/pta/ir"
	"github.com/BarrensZeppelin/pta/preprocess"
)

// Resolver computes the possible callees of invocation statements using
// the class hierarchy and the current points-to sets of receivers.
type Resolver struct {
	hierarchy ir.Hierarchy
	objects   *preprocess.Result
	pts       *PointsToStore
}

func NewResolver(h ir.Hierarchy, objects *preprocess.Result, pts *PointsToStore) *Resolver {
	return &Resolver{hierarchy: h, objects: objects, pts: pts}
}

// Resolve returns the targets of call in a deterministic order. Native
// methods are never targets. Calls through an unresolvable or native
// declared method have no targets.
func (r *Resolver) Resolve(call *ir.Invoke) []*ir.Method {
	declared := ir.Resolve(r.hierarchy, call.Method)
	if declared == nil || declared.IsNative() {
		return nil
	}

	switch call.Kind {
	case ir.CallStatic, ir.CallSpecial:
		if declared.IsAbstract() {
			return nil
		}
		return []*ir.Method{declared}
	}

	var targets []*ir.Method
	subsig := declared.Subsignature()
	for _, id := range r.pts.Get(call.Base).IDs() {
		typ, ok := r.objects.ObjectType(id)
		if !ok {
			continue
		}
		class := r.hierarchy.Class(typ)
		if class == nil {
			continue
		}
		if m := ir.Dispatch(class, subsig); m != nil && !m.IsNative() && !slices.Contains(targets, m) {
			targets = append(targets, m)
		}
	}

	if len(targets) == 0 && !declared.IsAbstract() {
		targets = append(targets, declared)
	}
	return targets
}
