package ecs

// EntityId identifies an entity inside a Storage.
// The upper 32 bits hold the archetype id, the lower 32 bits the slot the
// entity occupies in every column of that archetype.
type EntityId uint64

// NewEntityId packs an archetype id and a slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the id.
func (e EntityId) Index() uint32 {
	return uint32(e)
}
