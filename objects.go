package pta

import (
	"golang.org/x/tools/container/intsets"
)

// ObjectSet is a set of abstract object identifiers. Positive identifiers
// come from alloc markers, negative ones are synthetic or denote static
// field slots. The zero value is an empty set.
//
// ObjectSets must not be copied after first use.
type ObjectSet struct {
	sparse intsets.Sparse
}

func NewObjectSet(ids ...int) *ObjectSet {
	s := &ObjectSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether the set grew.
func (s *ObjectSet) Add(id int) bool { return s.sparse.Insert(id) }

// AddAll unions o into s and reports whether s grew.
func (s *ObjectSet) AddAll(o *ObjectSet) bool {
	if o == nil {
		return false
	}
	return s.sparse.UnionWith(&o.sparse)
}

func (s *ObjectSet) Has(id int) bool { return s.sparse.Has(id) }

func (s *ObjectSet) Len() int { return s.sparse.Len() }

func (s *ObjectSet) IsEmpty() bool { return s.sparse.IsEmpty() }

// SubsetOf reports whether every element of s is in o.
func (s *ObjectSet) SubsetOf(o *ObjectSet) bool { return s.sparse.SubsetOf(&o.sparse) }

// IDs returns the elements of s in ascending order.
func (s *ObjectSet) IDs() []int { return s.sparse.AppendTo(nil) }

// Observable returns the positive elements of s in ascending order. The
// result is never nil.
func (s *ObjectSet) Observable() []int {
	res := []int{}
	for _, id := range s.sparse.AppendTo(nil) {
		if id > 0 {
			res = append(res, id)
		}
	}
	return res
}

func (s *ObjectSet) String() string { return s.sparse.String() }
