package ecs

import (
	"iter"
	"unsafe"
)

// Query is a View whose matching rows are captured once per system run.
// The Scheduler calls Execute right before the owning system runs, so a
// system sees every structural change made by the systems before it.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	seenArchetypes int
	matched        []*Archetype
	bindings       [][]int

	rows  []T
	ready bool
}

// NewQuery creates a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. Called by Scheduler.Register.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.seenArchetypes = 0
	q.matched = nil
	q.bindings = nil
	q.ready = false
}

// Execute snapshots the matching rows.
func (q *Query[T]) Execute() {
	// Archetypes are never removed, so only the tail needs checking.
	for _, archetype := range q.storage.order[q.seenArchetypes:] {
		if q.view.matches(archetype) {
			q.matched = append(q.matched, archetype)
			q.bindings = append(q.bindings, q.view.bind(archetype))
		}
	}
	q.seenArchetypes = q.storage.archetypeCount()

	q.rows = q.rows[:0]
	for i, archetype := range q.matched {
		cols := q.bindings[i]
		var row T
		for slot := range archetype.columns[0].slots() {
			if q.view.fill(unsafe.Pointer(&row), archetype, cols, slot) {
				q.rows = append(q.rows, row)
			}
		}
	}
	q.ready = true
}

// Iter yields the rows captured by the last Execute.
// It panics if Execute has never been called.
func (q *Query[T]) Iter() iter.Seq[T] {
	if !q.ready {
		panic("Query.Iter() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for _, row := range q.rows {
			if !yield(row) {
				return
			}
		}
	}
}

// First returns the first captured row.
func (q *Query[T]) First() (T, bool) {
	if !q.ready {
		panic("Query.First() called before Query.Execute()")
	}
	if len(q.rows) == 0 {
		var zero T
		return zero, false
	}
	return q.rows[0], true
}

// Len returns the number of captured rows.
func (q *Query[T]) Len() int {
	return len(q.rows)
}
