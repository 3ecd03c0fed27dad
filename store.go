package pta

import (
	"github.com/BarrensZeppelin/pta/ir"
)

// PointsToStore maps variables to the objects they may point to.
// Variables that were never written to point to nothing.
type PointsToStore struct {
	pts map[*ir.Var]*ObjectSet
}

func NewPointsToStore() *PointsToStore {
	return &PointsToStore{pts: make(map[*ir.Var]*ObjectSet)}
}

// Get returns the points-to set of v. The returned set is owned by the
// store and must not be modified.
func (s *PointsToStore) Get(v *ir.Var) *ObjectSet {
	if set, ok := s.pts[v]; ok {
		return set
	}
	return &ObjectSet{}
}

// AddAll unions ids into the points-to set of v and reports whether it
// grew. Unioning an empty set never allocates an entry.
func (s *PointsToStore) AddAll(v *ir.Var, ids *ObjectSet) bool {
	if ids == nil || ids.IsEmpty() {
		return false
	}
	set, ok := s.pts[v]
	if !ok {
		set = &ObjectSet{}
		s.pts[v] = set
	}
	return set.AddAll(ids)
}

// Add inserts a single object into the points-to set of v.
func (s *PointsToStore) Add(v *ir.Var, id int) bool {
	set, ok := s.pts[v]
	if !ok {
		set = &ObjectSet{}
		s.pts[v] = set
	}
	return set.Add(id)
}

// Len returns the number of variables with a non-empty points-to set.
func (s *PointsToStore) Len() int { return len(s.pts) }

// Vars returns the variables with a non-empty points-to set in no
// particular order.
func (s *PointsToStore) Vars() []*ir.Var {
	vars := make([]*ir.Var, 0, len(s.pts))
	for v := range s.pts {
		vars = append(vars, v)
	}
	return vars
}
