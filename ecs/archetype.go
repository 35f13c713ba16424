package ecs

import (
	"hash/fnv"
	"reflect"
	"slices"
	"strings"
)

// Archetype groups every entity that has exactly the same component set.
// All columns share slot numbering: slot i of each column belongs to the
// same entity.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
	}
	return a
}

// ID returns the archetype's hash id.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types in canonical order.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	return a.columns[0].live()
}

// HasComponent reports whether the archetype carries compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.columnOf(compType) >= 0
}

func (a *Archetype) columnOf(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// spawn appends one entity. components must match a.types one to one.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.columnOf(componentType(comp))
		s := a.columns[idx].add(comp)
		if slot >= 0 && s != slot {
			panic("ecs: archetype columns out of step")
		}
		slot = s
	}
	return uint32(slot)
}

func (a *Archetype) remove(slot uint32) bool {
	removed := false
	for _, col := range a.columns {
		if col.remove(int(slot)) {
			removed = true
		}
	}
	return removed
}

func (a *Archetype) alive(slot uint32) bool {
	return a.columns[0].has(int(slot))
}

// Iter yields the ids of all live entities in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		for slot := range a.columns[0].slots() {
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return t
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}

// canonicalTypes sorts types by their fully qualified name and rejects
// duplicates.
func canonicalTypes(types []reflect.Type) []reflect.Type {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(typeKey(a), typeKey(b))
	})
	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			panic("ecs: duplicate component type " + types[i].String())
		}
	}
	return types
}

// archetypeHash is FNV-1a over the canonical type names. Zero is reserved.
func archetypeHash(types []reflect.Type) uint32 {
	h := fnv.New32a()
	for _, t := range types {
		h.Write([]byte(typeKey(t)))
		h.Write([]byte{0})
	}
	if sum := h.Sum32(); sum != 0 {
		return sum
	}
	return 1
}
