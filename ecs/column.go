package ecs

import (
	"fmt"
	"iter"
	"math/bits"
	"reflect"
	"unsafe"
)

// ComponentRegistry maps component types to column constructors.
// Each Storage owns exactly one registry; registries may be shared between
// storages that use the same component set.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent makes T usable as a component in storages built on r.
// Registering the same type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &typedColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory, ok := r.factories[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return factory()
}

// column is the type-erased view of a typedColumn.
type column interface {
	add(value any) int
	remove(slot int) bool
	get(slot int) any
	ptr(slot int) unsafe.Pointer
	has(slot int) bool
	live() int
	slots() iter.Seq[int]
}

const pageSize = 64

// page holds pageSize component values and an occupancy mask.
type page[T any] struct {
	values [pageSize]T
	used   uint64
}

// typedColumn stores components of one type in fixed pages so pointers
// handed out to systems stay valid while other entities are spawned.
type typedColumn[T any] struct {
	pages []*page[T]
	free  []int
	next  int
	count int
}

func (c *typedColumn[T]) add(value any) int {
	var v T
	switch x := value.(type) {
	case T:
		v = x
	case *T:
		v = *x
	default:
		panic(fmt.Sprintf("column of %s cannot hold %T", reflect.TypeFor[T](), value))
	}

	var slot int
	if n := len(c.free); n > 0 {
		slot = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		slot = c.next
		c.next++
		if slot/pageSize >= len(c.pages) {
			c.pages = append(c.pages, &page[T]{})
		}
	}

	p := c.pages[slot/pageSize]
	p.values[slot%pageSize] = v
	p.used |= 1 << (slot % pageSize)
	c.count++
	return slot
}

func (c *typedColumn[T]) remove(slot int) bool {
	if !c.has(slot) {
		return false
	}
	p := c.pages[slot/pageSize]
	var zero T
	p.values[slot%pageSize] = zero
	p.used &^= 1 << (slot % pageSize)
	c.free = append(c.free, slot)
	c.count--
	return true
}

func (c *typedColumn[T]) has(slot int) bool {
	if slot < 0 || slot >= c.next {
		return false
	}
	return c.pages[slot/pageSize].used&(1<<(slot%pageSize)) != 0
}

func (c *typedColumn[T]) get(slot int) any {
	if !c.has(slot) {
		return nil
	}
	return &c.pages[slot/pageSize].values[slot%pageSize]
}

func (c *typedColumn[T]) ptr(slot int) unsafe.Pointer {
	if !c.has(slot) {
		return nil
	}
	return unsafe.Pointer(&c.pages[slot/pageSize].values[slot%pageSize])
}

func (c *typedColumn[T]) live() int {
	return c.count
}

// slots yields occupied slots in ascending order. The mask is re-read after
// every yield, so removing the current slot while iterating is safe.
func (c *typedColumn[T]) slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		for pi := 0; pi < len(c.pages); pi++ {
			p := c.pages[pi]
			for bit := 0; bit < pageSize; {
				rest := p.used >> bit
				if rest == 0 {
					break
				}
				bit += bits.TrailingZeros64(rest)
				if !yield(pi*pageSize + bit) {
					return
				}
				bit++
			}
		}
	}
}
