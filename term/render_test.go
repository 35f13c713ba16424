package term

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/unictris/ecs"
	"github.com/plus3/unictris/game"
)

type renderHarness struct {
	*game.World
	screen  tcell.SimulationScreen
	render  *RenderSystem
	actions chan game.Action
}

func newRenderHarness(t *testing.T, themeName string) *renderHarness {
	t.Helper()
	theme, ok := LookupTheme(themeName)
	require.True(t, ok)

	h := &renderHarness{
		screen:  newScreen(t),
		actions: make(chan game.Action, 8),
	}
	h.render = &RenderSystem{Screen: h.screen, Theme: theme}
	h.World = game.NewWorld(game.Options{
		Settings: game.Settings{DropFrames: 1000, LevelTicks: 1 << 40, FlashTicks: 5},
		Seed:     5,
		Ghost:    true,
		Actions:  h.actions,
		Frontend: []ecs.System{h.render},
	})
	h.render.Stats = h.Scheduler.Stats
	return h
}

func (h *renderHarness) step(actions ...game.Action) {
	for _, a := range actions {
		h.actions <- a
	}
	h.Step(10 * time.Millisecond)
}

func readRow(screen tcell.Screen, x, y, n int) string {
	var b strings.Builder
	for i := range n {
		r, _, _, _ := screen.GetContent(x+i, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestRenderBoardAndPanel(t *testing.T) {
	h := newRenderHarness(t, "glyph")
	h.step()

	scr := h.screen
	corners := map[[2]int]rune{
		{0, 0}:                    '┏',
		{boardWidth, 0}:           '┓',
		{0, boardHeight}:          '┗',
		{boardWidth, boardHeight}: '┛',
		{1, 0}:                    '━',
		{0, 1}:                    '┃',
	}
	for pos, want := range corners {
		r, _, _, _ := scr.GetContent(pos[0], pos[1])
		assert.Equal(t, want, r, "at %v", pos)
	}

	assert.Equal(t, Title, readRow(scr, panelX, 2, len([]rune(Title))))
	assert.Equal(t, "Score : 0", readRow(scr, panelX, 5, 9))
	assert.Equal(t, "Level : 1", readRow(scr, panelX, 6, 9))
	assert.Equal(t, "Lines : 0", readRow(scr, panelX, 7, 9))
	assert.Equal(t, "Next  :", readRow(scr, panelX, 10, 7))

	pos, piece, ok := h.ActivePiece()
	require.True(t, ok)
	assert.Equal(t, "Shape : "+string(rune('0'+piece.Kind))+".", readRow(scr, panelX, 8, 10))

	want := h.render.Theme.Cell(piece.Kind)
	for _, c := range piece.Shape().Cells() {
		for dx := 1; dx <= 2; dx++ {
			r, _, style, _ := scr.GetContent(2*(pos.X+c.X)+dx, pos.Y+c.Y+1)
			assert.Equal(t, want.Glyph, r)
			assert.Equal(t, want.Style, style)
		}
	}
}

func TestRenderGhost(t *testing.T) {
	h := newRenderHarness(t, "blocks")
	h.step()
	pos, piece, ok := h.ActivePiece()
	require.True(t, ok)

	ghostY := h.Playfield().DropRow(piece.Shape(), pos.X, pos.Y)
	require.Greater(t, ghostY, pos.Y)
	c := piece.Shape().Cells()[0]
	r, _, _, _ := h.screen.GetContent(2*(pos.X+c.X)+1, ghostY+c.Y+1)
	assert.Equal(t, h.render.Theme.Ghost.Glyph, r)
}

func TestRenderSettledCellsAndFlash(t *testing.T) {
	h := newRenderHarness(t, "runes")
	h.step()
	for x := range game.Width - 1 {
		h.Playfield().Set(x, game.Height-1, game.KindT)
	}
	h.Playfield().Set(3, game.Height-2, game.KindL)
	h.Display().Ghost = false
	h.step()

	r, _, _, _ := h.screen.GetContent(2*3+1, game.Height-1)
	assert.Equal(t, h.render.Theme.Cell(game.KindL).Glyph, r)
	r, _, _, _ = h.screen.GetContent(2*(game.Width-1)+1, game.Height)
	assert.Equal(t, ' ', r, "the open cell stays empty")

	h.Storage.Spawn(game.Flash{Row: 4, TTL: 3})
	h.step()
	_, _, style, _ := h.screen.GetContent(1, 5)
	assert.Equal(t, h.render.Theme.Flash.Style, style)
}

func TestRenderBanners(t *testing.T) {
	h := newRenderHarness(t, "glyph")
	h.step(game.Pause)

	row := readRow(h.screen, 0, game.Height/2, boardWidth)
	assert.Contains(t, row, "PAUSED")

	h.step(game.Pause)
	row = readRow(h.screen, 0, game.Height/2, boardWidth)
	assert.NotContains(t, row, "PAUSED")
}

func TestRenderHighScoresAndDebug(t *testing.T) {
	h := newRenderHarness(t, "glyph")
	h.render.HighScores = []HighScore{{Name: "ada", Score: 12, Level: 2}}
	h.step(game.ToggleDebug)

	var panel, debug bool
	for y := range 30 {
		line := readRow(h.screen, 0, y, 80)
		panel = panel || strings.Contains(line, "Top scores")
		if strings.Contains(line, "ada") {
			assert.Contains(t, line, "12")
		}
		debug = debug || strings.Contains(line, "entities 1")
	}
	assert.True(t, panel)
	assert.True(t, debug)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, []string{"blocks", "glyph", "runes"}, ThemeNames())
	_, ok := LookupTheme(DefaultTheme)
	assert.True(t, ok)
	_, ok = LookupTheme("neon")
	assert.False(t, ok)

	glyph, _ := LookupTheme("glyph")
	seen := map[rune]bool{}
	for kind := range game.Kind(game.NumKinds) {
		seen[glyph.Cell(kind).Glyph] = true
	}
	assert.Len(t, seen, game.NumKinds, "each kind has its own glyph")
}
