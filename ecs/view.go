package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View reads entities through a row struct T.
//
// Every field of T must be one of:
//   - an embedded pointer to a component type (required);
//   - a named pointer to a component type, required unless tagged
//     `ecs:"optional"`, in which case it is nil when absent;
//   - an EntityId field (embedded or named), which receives the entity id.
//
// Pointers handed out by a view point into storage; writes through them
// mutate the component in place.
type View[T any] struct {
	storage *Storage
	fields  []viewField
	idField uintptr
	hasId   bool
}

type viewField struct {
	offset   uintptr
	typ      reflect.Type
	optional bool
}

var entityIdType = reflect.TypeFor[EntityId]()

// NewView builds a view for row type T. It panics if T is malformed.
func NewView[T any](storage *Storage) *View[T] {
	rowType := reflect.TypeFor[T]()
	if rowType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < rowType.NumField(); i++ {
		field := rowType.Field(i)

		if field.Type == entityIdType {
			v.idField = field.Offset
			v.hasId = true
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types or EntityId, got " + field.Type.String())
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if field.Anonymous || tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" on named fields is supported)")
			}
			optional = true
		}
		v.fields = append(v.fields, viewField{
			offset:   field.Offset,
			typ:      field.Type.Elem(),
			optional: optional,
		})
	}
	return v
}

func (v *View[T]) matches(archetype *Archetype) bool {
	for _, f := range v.fields {
		if !f.optional && !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

// bind resolves each view field to a column index in archetype (-1 when
// an optional component is absent).
func (v *View[T]) bind(archetype *Archetype) []int {
	cols := make([]int, len(v.fields))
	for i, f := range v.fields {
		cols[i] = archetype.columnOf(f.typ)
	}
	return cols
}

func (v *View[T]) fill(row unsafe.Pointer, archetype *Archetype, cols []int, slot int) bool {
	for i, f := range v.fields {
		dst := (*unsafe.Pointer)(unsafe.Add(row, f.offset))
		if cols[i] < 0 {
			if !f.optional {
				return false
			}
			*dst = nil
			continue
		}
		p := archetype.columns[cols[i]].ptr(slot)
		if p == nil && !f.optional {
			return false
		}
		*dst = p
	}
	if v.hasId {
		*(*EntityId)(unsafe.Add(row, v.idField)) = NewEntityId(archetype.id, uint32(slot))
	}
	return true
}

// Fill populates row for the given entity and reports whether the entity
// has every required component.
func (v *View[T]) Fill(id EntityId, row *T) bool {
	archetype, ok := v.storage.archetypes.Get(id.ArchetypeId())
	if !ok || !archetype.alive(id.Index()) || !v.matches(archetype) {
		return false
	}
	return v.fill(unsafe.Pointer(row), archetype, v.bind(archetype), int(id.Index()))
}

// Get returns the populated row for id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var row T
	if !v.Fill(id, &row) {
		return nil
	}
	return &row
}

// Iter yields a row for every matching entity, archetype by archetype in
// creation order. Deleting the current entity while iterating is safe;
// entities spawned during iteration may or may not be visited.
func (v *View[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, archetype := range v.storage.order {
			if !v.matches(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(T) bool) bool {
	cols := v.bind(archetype)
	var row T
	for slot := range archetype.columns[0].slots() {
		if !v.fill(unsafe.Pointer(&row), archetype, cols, slot) {
			continue
		}
		if !yield(row) {
			return false
		}
	}
	return true
}

// Count returns the number of matching entities.
func (v *View[T]) Count() int {
	n := 0
	for _, archetype := range v.storage.order {
		if v.matches(archetype) {
			n += archetype.Len()
		}
	}
	return n
}
