package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/unictris/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			entityId := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, entityId.ArchetypeId())
			assert.Equal(t, tt.index, entityId.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Name{Value: "piece"})
	assert.NotZero(t, id.ArchetypeId())

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "piece", name.Value)

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Name]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
}

func TestSpawnCopiesPointerComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	original := &Position{X: 1, Y: 1}
	id := storage.Spawn(original)
	original.X = 99

	assert.Equal(t, 1, ecs.ReadComponent[Position](storage, id).X)
}

func TestSameComponentSetSharesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(Position{}, Velocity{})
	id2 := storage.Spawn(Velocity{}, Position{})
	id3 := storage.Spawn(Position{})

	assert.Equal(t, id1.ArchetypeId(), id2.ArchetypeId())
	assert.NotEqual(t, id1.ArchetypeId(), id3.ArchetypeId())
	assert.NotEqual(t, id1.Index(), id2.Index())

	archetype := storage.GetArchetype(Velocity{}, Position{})
	require.NotNil(t, archetype)
	assert.Equal(t, 2, archetype.Len())
	assert.Nil(t, storage.GetArchetype(Health{}))
}

func TestPrimitiveComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Score(42), Tag("hud"))
	assert.Equal(t, Score(42), *ecs.ReadComponent[Score](storage, id))
	assert.Equal(t, Tag("hud"), *ecs.ReadComponent[Tag](storage, id))
}

func TestDeleteAndSlotReuse(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(Position{X: 1})
	id2 := storage.Spawn(Position{X: 2})
	assert.Equal(t, 2, storage.Len())

	assert.True(t, storage.Delete(id1))
	assert.False(t, storage.Delete(id1))
	assert.False(t, storage.Alive(id1))
	assert.True(t, storage.Alive(id2))
	assert.Nil(t, ecs.ReadComponent[Position](storage, id1))
	assert.Equal(t, 1, storage.Len())

	id3 := storage.Spawn(Position{X: 3})
	assert.Equal(t, id1, id3, "freed slot should be reused")
	assert.Equal(t, 3, ecs.ReadComponent[Position](storage, id3).X)
}

func TestDeleteUnknownArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.False(t, storage.Delete(ecs.NewEntityId(12345, 0)))
	assert.False(t, storage.Alive(ecs.NewEntityId(12345, 0)))
}

func TestManyEntitiesSpanPages(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, 200)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: i})
	}
	for i, id := range ids {
		assert.Equal(t, i, ecs.ReadComponent[Position](storage, id).X)
	}

	for i := 0; i < len(ids); i += 2 {
		storage.Delete(ids[i])
	}
	assert.Equal(t, 100, storage.Len())
}

func TestClearKeepsSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{})
	storage.Spawn(Position{}, Velocity{})
	storage.AddSingleton(Score(7))

	storage.Clear()

	assert.Equal(t, 0, storage.Len())
	assert.Equal(t, Score(7), *ecs.GetSingleton[Score](storage))
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() }, "no components")
	assert.Panics(t, func() { storage.Spawn(3.14) }, "unregistered type")
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) }, "map component")
	assert.Panics(t, func() { storage.Spawn(Position{}, Position{}) }, "duplicate type")
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(Position{}, Name{})
	storage.Spawn(Position{}, Name{})
	storage.Spawn(Health{})
	ecs.NewSingleton[Score](storage, 3)
	ecs.NewSingleton[Tag](storage, "x")

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Len(t, stats.ArchetypeBreakdown[0].ComponentTypes, 2)
	assert.Equal(t, []string{"ecs_test.Score", "ecs_test.Tag"}, stats.SingletonTypes)
}
