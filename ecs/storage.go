package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// Storage holds every entity, component and singleton of one world.
type Storage struct {
	registry   *ComponentRegistry
	archetypes *intmap.Map[uint32, *Archetype]
	// order keeps archetypes in creation order so iteration is deterministic.
	order      []*Archetype
	singletons map[reflect.Type]reflect.Value
}

// NewStorage creates an empty storage backed by registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: intmap.New[uint32, *Archetype](16),
		singletons: make(map[reflect.Type]reflect.Value),
	}
}

// Registry returns the component registry the storage was built with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates an entity from the given components. Components may be
// passed by value or by pointer; the storage always keeps its own copy.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		types[i] = componentType(comp)
	}
	archetype := s.archetypeFor(canonicalTypes(types))
	return NewEntityId(archetype.id, archetype.spawn(components))
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := archetypeHash(types)
	if archetype, ok := s.archetypes.Get(id); ok {
		if !slices.Equal(archetype.types, types) {
			panic("ecs: archetype hash collision")
		}
		return archetype
	}
	archetype := newArchetype(id, types, s.registry)
	s.archetypes.Put(id, archetype)
	s.order = append(s.order, archetype)
	return archetype
}

// Delete removes the entity and all its components. It reports whether
// anything was removed.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return false
	}
	return archetype.remove(id.Index())
}

// Alive reports whether id currently refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && archetype.alive(id.Index())
}

// GetComponent returns a pointer to the entity's component of compType,
// or nil if the entity is dead or lacks it.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}
	idx := archetype.columnOf(compType)
	if idx < 0 {
		return nil
	}
	return archetype.columns[idx].get(int(id.Index()))
}

// HasComponent reports whether the entity's archetype includes compType.
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && archetype.HasComponent(compType)
}

// GetArchetype returns the archetype holding exactly the given component
// types, or nil if no entity with that set was ever spawned.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := make([]reflect.Type, len(components))
	for i, comp := range components {
		types[i] = componentType(comp)
	}
	archetype, _ := s.archetypes.Get(archetypeHash(canonicalTypes(types)))
	return archetype
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	n := 0
	for _, archetype := range s.order {
		n += archetype.Len()
	}
	return n
}

// Clear deletes every entity. Singletons are kept.
func (s *Storage) Clear() {
	for _, archetype := range s.order {
		for id := range archetype.Iter() {
			archetype.remove(id.Index())
		}
	}
}

// AddSingleton stores value as the storage-wide instance of its type,
// replacing any previous value.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t == nil {
		panic("ecs: nil singleton")
	}
	if existing, ok := s.singletons[t]; ok {
		existing.Elem().Set(reflect.ValueOf(value))
		return
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = ptr
}

func (s *Storage) singleton(t reflect.Type) (reflect.Value, bool) {
	v, ok := s.singletons[t]
	return v, ok
}

// archetypeCount is used by queries to notice new archetypes.
func (s *Storage) archetypeCount() int {
	return len(s.order)
}

// ComponentReader is implemented by Storage.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T component or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
