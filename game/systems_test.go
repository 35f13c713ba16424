package game

import (
	"testing"
	"time"

	"github.com/plus3/unictris/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowSettings keeps gravity out of the way so tests drive the piece.
var slowSettings = Settings{DropFrames: 1000, LevelTicks: 1 << 40, FlashTicks: 3}

type harness struct {
	*World
	actions chan Action
	records []Result
	stops   int
}

func newHarness(t *testing.T, seed uint64) *harness {
	t.Helper()
	h := &harness{actions: make(chan Action, 32)}
	h.World = NewWorld(Options{
		Settings: slowSettings,
		Seed:     seed,
		Actions:  h.actions,
		Record:   func(r Result) { h.records = append(h.records, r) },
		Stop:     func() { h.stops++ },
	})
	return h
}

func (h *harness) step(actions ...Action) {
	for _, a := range actions {
		h.actions <- a
	}
	h.Step(10 * time.Millisecond)
}

func (h *harness) setPiece(t *testing.T, kind Kind, rotation, x, y int) {
	t.Helper()
	for row := range h.active.Iter() {
		*row.Position = Position{X: x, Y: y}
		*row.Piece = Piece{Kind: kind, Rotation: rotation}
		return
	}
	t.Fatal("no active piece")
}

func (h *harness) piece(t *testing.T) (Position, Piece) {
	t.Helper()
	pos, piece, ok := h.ActivePiece()
	require.True(t, ok, "no active piece")
	return pos, piece
}

func TestFirstStepSpawnsAPiece(t *testing.T) {
	h := newHarness(t, 1)
	_, _, ok := h.ActivePiece()
	assert.False(t, ok)

	h.step()

	pos, piece := h.piece(t)
	assert.Equal(t, 0, pos.Y)
	width, _ := piece.Shape().Size()
	assert.LessOrEqual(t, pos.X+width, Width)
	assert.True(t, h.Session().HasNext)
	assert.Equal(t, uint64(1), h.Session().Tick)
	assert.Equal(t, 1, h.Session().Level)
}

func TestMoveAndRotate(t *testing.T) {
	h := newHarness(t, 1)
	h.step()
	h.setPiece(t, KindT, 0, 4, 5)

	h.step(MoveLeft)
	pos, _ := h.piece(t)
	assert.Equal(t, 3, pos.X)

	h.step(MoveRight, MoveRight)
	pos, _ = h.piece(t)
	assert.Equal(t, 5, pos.X)

	h.step(Rotate)
	_, piece := h.piece(t)
	assert.Equal(t, 1, piece.Rotation)

	h.setPiece(t, KindO, 0, 0, 5)
	h.step(MoveLeft)
	pos, _ = h.piece(t)
	assert.Equal(t, 0, pos.X, "the wall blocks the move")
}

func TestGravityPullsThePieceDown(t *testing.T) {
	h := newHarness(t, 1)
	h.World = NewWorld(Options{Settings: Settings{DropFrames: 2, LevelTicks: 1 << 40}, Seed: 1})
	h.step()
	h.setPiece(t, KindO, 0, 4, 0)

	h.step()
	h.step()
	pos, _ := h.piece(t)
	assert.Equal(t, 1, pos.Y)
}

func TestHardDropLocksAndSpawns(t *testing.T) {
	h := newHarness(t, 3)
	h.step()
	h.setPiece(t, KindO, 0, 4, 0)

	h.step(Drop)

	assert.Equal(t, 1, h.Session().Pieces)
	for _, x := range []int{4, 5} {
		for _, y := range []int{Height - 2, Height - 1} {
			kind, ok := h.Playfield().At(x, y)
			assert.True(t, ok)
			assert.Equal(t, KindO, kind)
		}
	}
	pos, _ := h.piece(t)
	assert.Equal(t, 0, pos.Y, "a fresh piece replaces the locked one")
	assert.Zero(t, h.Session().Score)
}

func TestLineClearScores(t *testing.T) {
	h := newHarness(t, 1)
	h.step()
	for x := 4; x < Width; x++ {
		h.Playfield().Set(x, Height-1, KindZ)
	}
	h.setPiece(t, KindI, 0, 0, 0)

	h.step(Drop)

	session := h.Session()
	assert.Equal(t, 1, session.Score)
	assert.Equal(t, 1, session.Lines)
	assert.Zero(t, h.Playfield().Filled())

	flashes := ecs.NewView[struct{ *Flash }](h.Storage)
	require.Equal(t, 1, flashes.Count())
	for row := range flashes.Iter() {
		assert.Equal(t, Height-1, row.Flash.Row)
	}

	for range slowSettings.FlashTicks {
		h.step()
	}
	assert.Zero(t, flashes.Count(), "flashes expire")
}

func TestPauseFreezesTheGame(t *testing.T) {
	h := newHarness(t, 1)
	h.step()
	h.setPiece(t, KindO, 0, 4, 3)

	h.step(Pause)
	assert.True(t, h.Session().Paused)
	tick := h.Session().Tick

	h.step(MoveRight, Drop)
	h.step()
	assert.Equal(t, tick, h.Session().Tick)
	pos, _ := h.piece(t)
	assert.Equal(t, Position{X: 4, Y: 3}, pos)

	h.step(Pause)
	assert.False(t, h.Session().Paused)
	assert.Equal(t, tick+1, h.Session().Tick)
}

func TestGameOverRecordsOnce(t *testing.T) {
	h := newHarness(t, 1)
	h.step()
	h.setPiece(t, KindO, 0, 0, 0)
	h.Playfield().Set(0, 2, KindL)

	h.step(Drop)
	assert.True(t, h.Session().Over)
	require.Len(t, h.records, 1)
	assert.Equal(t, 1, h.records[0].Level)

	tick := h.Session().Tick
	h.step(MoveRight, Pause)
	h.step()
	assert.Len(t, h.records, 1)
	assert.Equal(t, tick, h.Session().Tick)
	assert.False(t, h.Session().Paused)
	assert.Zero(t, h.stops)
}

func TestSpawnOverlapEndsTheGame(t *testing.T) {
	h := newHarness(t, 1)
	for x := range Width {
		h.Playfield().Set(x, 0, KindS)
		h.Playfield().Set(x, 1, KindS)
	}
	h.step()
	assert.True(t, h.Session().Over)
	assert.Len(t, h.records, 1)
}

func TestRestart(t *testing.T) {
	h := newHarness(t, 1)
	h.step()
	h.setPiece(t, KindO, 0, 0, 0)
	h.Playfield().Set(0, 2, KindL)
	h.step(Drop)
	require.True(t, h.Session().Over)
	next := h.Session().Next

	h.step(Restart)

	session := h.Session()
	assert.False(t, session.Over)
	assert.False(t, session.Recorded)
	assert.Zero(t, session.Score)
	assert.Equal(t, uint64(1), session.Tick)
	assert.Zero(t, h.Playfield().Filled())
	_, piece := h.piece(t)
	assert.Equal(t, next.Kind, piece.Kind, "the previewed piece comes next")
	assert.Equal(t, 1, h.Storage.Len())
}

func TestQuit(t *testing.T) {
	t.Run("before any piece locked", func(t *testing.T) {
		h := newHarness(t, 1)
		h.step()
		h.step(Quit)
		h.step()
		assert.Equal(t, 1, h.stops)
		assert.Empty(t, h.records)
	})

	t.Run("mid game records the result", func(t *testing.T) {
		h := newHarness(t, 1)
		h.step()
		h.setPiece(t, KindI, 0, 0, 0)
		h.step(Drop)
		h.step(Quit)
		h.step(Quit)
		assert.Equal(t, 1, h.stops)
		require.Len(t, h.records, 1)
		assert.Equal(t, 1, h.records[0].Pieces)
	})

	t.Run("while paused", func(t *testing.T) {
		h := newHarness(t, 1)
		h.step(Pause)
		h.step(Quit)
		assert.Equal(t, 1, h.stops)
	})

	t.Run("closed channel", func(t *testing.T) {
		h := newHarness(t, 1)
		h.step()
		close(h.actions)
		h.Step(time.Millisecond)
		h.Step(time.Millisecond)
		assert.True(t, h.Session().Quit)
		assert.Equal(t, 1, h.stops)
	})
}

func TestDisplayToggles(t *testing.T) {
	h := newHarness(t, 1)
	h.step(ToggleDebug, Redraw)
	assert.True(t, h.Display().Debug)
	assert.True(t, h.Display().Resync)

	h.step(ToggleDebug)
	assert.False(t, h.Display().Debug)
}

func TestSameSeedSameGame(t *testing.T) {
	a, b := newHarness(t, 99), newHarness(t, 99)
	for range 12 {
		a.step(Drop)
		b.step(Drop)
		pa, ka, oka := a.ActivePiece()
		pb, kb, okb := b.ActivePiece()
		require.Equal(t, oka, okb)
		assert.Equal(t, pa, pb)
		assert.Equal(t, ka, kb)
		assert.Equal(t, a.Session().Next, b.Session().Next)
	}
	assert.Equal(t, a.Session().Pieces, b.Session().Pieces)
}

func TestPartialSettingsUseDefaults(t *testing.T) {
	w := NewWorld(Options{Settings: Settings{DropFrames: 30}, Seed: 1})
	assert.NotPanics(t, func() {
		for range 40 {
			w.Step(10 * time.Millisecond)
		}
	})
	assert.Equal(t, 1, w.Session().Level)
}

func TestWorldQuitReportsTheGame(t *testing.T) {
	h := newHarness(t, 1)
	h.step()
	h.setPiece(t, KindO, 0, 4, 0)
	h.step(Drop)

	h.Quit()
	assert.True(t, h.Session().Quit)
	assert.Equal(t, 1, h.stops)
	require.Len(t, h.records, 1)
	assert.Equal(t, 1, h.records[0].Pieces)

	h.Quit()
	assert.Equal(t, 1, h.stops, "a second quit is a no-op")
	assert.Len(t, h.records, 1)
}
