package pta

import (
	"fmt"
	"hash/fnv"

	"golang.org/x/exp/slices"

	"github.com/BarrensZeppelin/pta/internal/maps"
)

type keyKind uint8

const (
	namedKey keyKind = iota
	indexKey
	anyIndexKey
)

// FieldKey selects a slot of an abstract object: a named field, a constant
// array index or the wildcard array index.
type FieldKey struct {
	kind  keyKind
	name  string
	index int64
}

// AnyIndex is the key of array stores whose index is not a known constant.
var AnyIndex = FieldKey{kind: anyIndexKey}

func Field(name string) FieldKey { return FieldKey{kind: namedKey, name: name} }

func Index(i int64) FieldKey { return FieldKey{kind: indexKey, index: i} }

// IsArray reports whether k is an index or the wildcard index.
func (k FieldKey) IsArray() bool { return k.kind != namedKey }

func (k FieldKey) String() string {
	switch k.kind {
	case indexKey:
		return fmt.Sprintf("[%d]", k.index)
	case anyIndexKey:
		return "[]"
	default:
		return k.name
	}
}

// StaticSlotID returns the synthetic object that holds the static fields of
// the named class. Slots live far below the synthetic allocation ids and
// are never observable.
func StaticSlotID(className string) int {
	h := fnv.New32a()
	h.Write([]byte(className))
	return -1000000 - int(h.Sum32()&0x3fffffff)
}

// FieldStore maps (object, key) pairs to the objects stored there.
type FieldStore struct {
	fields map[int]map[FieldKey]*ObjectSet
}

func NewFieldStore() *FieldStore {
	return &FieldStore{fields: make(map[int]map[FieldKey]*ObjectSet)}
}

// Get returns the objects stored in slot key of obj. The returned set is
// owned by the store and must not be modified.
func (s *FieldStore) Get(obj int, key FieldKey) *ObjectSet {
	if set, ok := s.fields[obj][key]; ok {
		return set
	}
	return &ObjectSet{}
}

// AddAll unions ids into slot key of obj and reports whether it grew.
func (s *FieldStore) AddAll(obj int, key FieldKey, ids *ObjectSet) bool {
	if ids == nil || ids.IsEmpty() {
		return false
	}
	slots, ok := s.fields[obj]
	if !ok {
		slots = make(map[FieldKey]*ObjectSet)
		s.fields[obj] = slots
	}
	set, ok := slots[key]
	if !ok {
		set = &ObjectSet{}
		slots[key] = set
	}
	return set.AddAll(ids)
}

// AllArrayElements returns the union of every array slot of obj, the
// wildcard slot included. Named fields are not part of the result.
func (s *FieldStore) AllArrayElements(obj int) *ObjectSet {
	res := &ObjectSet{}
	for key, set := range s.fields[obj] {
		if key.IsArray() {
			res.AddAll(set)
		}
	}
	return res
}

// Objects returns every object with at least one written slot, ascending.
func (s *FieldStore) Objects() []int {
	return maps.SortedKeys(s.fields)
}

// Keys returns the written slots of obj ordered by their printed form.
func (s *FieldStore) Keys(obj int) []FieldKey {
	keys := maps.Keys(s.fields[obj])
	slices.SortFunc(keys, func(a, b FieldKey) bool {
		return a.String() < b.String()
	})
	return keys
}
