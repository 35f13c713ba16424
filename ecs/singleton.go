package ecs

import "reflect"

// Singleton gives typed access to a storage-wide value that belongs to no
// entity: game session state, settings, random sources and the like.
type Singleton[T any] struct {
	storage *Storage
	ptr     *T
}

// NewSingleton returns an accessor for T, creating the value from
// initializer (or the zero value) if the storage does not hold one yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if _, ok := storage.singleton(reflect.TypeFor[T]()); !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}
	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. Called by Scheduler.Register.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.ptr = nil
	s.resolve()
}

func (s *Singleton[T]) resolve() {
	if s.storage == nil {
		return
	}
	if v, ok := s.storage.singleton(reflect.TypeFor[T]()); ok {
		s.ptr = v.Interface().(*T)
	}
}

// Get returns the value, or nil if it has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.resolve()
	}
	return s.ptr
}

// Exists reports whether the storage holds a T.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// GetSingleton is a one-shot lookup without an accessor.
func GetSingleton[T any](storage *Storage) *T {
	v, ok := storage.singleton(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	return v.Interface().(*T)
}
