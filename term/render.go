package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/unictris/ecs"
	"github.com/plus3/unictris/game"
)

// Layout of the screen, in terminal cells.
const (
	boardWidth  = 2*game.Width + 1
	boardHeight = game.Height + 1
	panelX      = boardWidth + 3
)

const (
	Title    = "Unictris - Unicode-powered Tetris"
	Subtitle = "Glyph Edition"
	helpLine = "←/→ move  ↑ rotate  ↓ drop  space pause  r restart  q quit"
)

var (
	titleStyle  = plain.Foreground(tcell.ColorTeal)
	subStyle    = plain.Foreground(tcell.ColorYellow)
	infoStyle   = plain.Foreground(tcell.ColorWhite).Bold(true)
	dimStyle    = plain.Foreground(tcell.ColorGray)
	bannerStyle = plain.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
)

// HighScore is one leaderboard line shown in the info panel.
type HighScore struct {
	Name  string
	Score int
	Level int
}

// RenderSystem draws the game to a tcell screen once per tick.
type RenderSystem struct {
	Active ecs.Query[struct {
		*game.Position
		*game.Piece
	}]
	Flashes ecs.Query[struct{ *game.Flash }]
	Session ecs.Singleton[game.Session]
	Field   ecs.Singleton[game.Playfield]
	Display ecs.Singleton[game.Display]

	Screen tcell.Screen
	Theme  Theme
	// HighScores is shown below the next piece preview.
	HighScores []HighScore
	// Stats feeds the debug overlay. Optional.
	Stats func() *ecs.SchedulerStats
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	display := s.Display.Get()
	if display.Resync {
		s.Screen.Sync()
		display.Resync = false
	}

	s.Screen.Clear()
	s.drawBox(0, 0, boardWidth, boardHeight)

	field := s.Field.Get()
	session := s.Session.Get()
	s.drawField(field)

	for row := range s.Flashes.Iter() {
		for x := range field.Width {
			s.drawCell(x, row.Flash.Row, s.Theme.Flash)
		}
	}

	piece, hasPiece := s.Active.First()
	if hasPiece {
		shape := piece.Shape()
		if display.Ghost && !session.Over {
			ghostY := field.DropRow(shape, piece.Position.X, piece.Position.Y)
			if ghostY != piece.Position.Y {
				s.drawShape(shape, piece.Position.X, ghostY, s.Theme.Ghost)
			}
		}
		s.drawShape(shape, piece.Position.X, piece.Position.Y, s.Theme.Cell(piece.Kind))
	}

	y := s.drawInfo(session, piece.Piece)
	y = s.drawHighScores(y + 1)

	switch {
	case session.Over:
		s.drawBanner(game.Height/2, "GAME OVER")
		s.drawBanner(game.Height/2+1, "r to restart")
	case session.Paused:
		s.drawBanner(game.Height/2, "PAUSED")
	}

	drawText(s.Screen, 0, boardHeight+1, dimStyle, helpLine)
	if display.Debug {
		s.drawDebug(frame.Storage, max(y+1, boardHeight+3))
	}

	s.Screen.Show()
}

func (s *RenderSystem) drawBox(x, y, width, height int) {
	scr := s.Screen
	scr.SetContent(x, y, '┏', nil, border)
	scr.SetContent(x+width, y, '┓', nil, border)
	scr.SetContent(x, y+height, '┗', nil, border)
	scr.SetContent(x+width, y+height, '┛', nil, border)
	for i := 1; i < width; i++ {
		scr.SetContent(x+i, y, '━', nil, border)
		scr.SetContent(x+i, y+height, '━', nil, border)
	}
	for i := 1; i < height; i++ {
		scr.SetContent(x, y+i, '┃', nil, border)
		scr.SetContent(x+width, y+i, '┃', nil, border)
	}
}

func (s *RenderSystem) drawField(field *game.Playfield) {
	for y := range field.Height {
		for x := range field.Width {
			cell := s.Theme.Empty
			if kind, ok := field.At(x, y); ok {
				cell = s.Theme.Cell(kind)
			}
			s.drawCell(x, y, cell)
		}
	}
}

// drawCell paints playfield cell (x, y) as two terminal columns.
func (s *RenderSystem) drawCell(x, y int, cell Cell) {
	s.Screen.SetContent(2*x+1, y+1, cell.Glyph, nil, cell.Style)
	s.Screen.SetContent(2*x+2, y+1, cell.Glyph, nil, cell.Style)
}

func (s *RenderSystem) drawShape(shape game.Shape, x, y int, cell Cell) {
	for _, c := range shape.Cells() {
		s.drawCell(x+c.X, y+c.Y, cell)
	}
}

// drawInfo draws the panel right of the board and returns the next free
// row.
func (s *RenderSystem) drawInfo(session *game.Session, piece *game.Piece) int {
	drawText(s.Screen, panelX, 2, titleStyle, Title)
	drawText(s.Screen, panelX, 3, subStyle, Subtitle)

	drawText(s.Screen, panelX, 5, infoStyle, fmt.Sprintf("Score : %d", session.Score))
	drawText(s.Screen, panelX, 6, infoStyle, fmt.Sprintf("Level : %d", session.Level))
	drawText(s.Screen, panelX, 7, infoStyle, fmt.Sprintf("Lines : %d", session.Lines))
	if piece != nil {
		drawText(s.Screen, panelX, 8, infoStyle, fmt.Sprintf("Shape : %d.%d", piece.Kind, piece.Rotation))
	}

	y := 10
	if !session.HasNext {
		return y
	}
	drawText(s.Screen, panelX, y, infoStyle, "Next  :")
	next := game.ShapeOf(session.Next.Kind, session.Next.Rotation)
	cell := s.Theme.Cell(session.Next.Kind)
	for _, c := range next.Cells() {
		px := panelX + 8 + 2*c.X
		s.Screen.SetContent(px, y+c.Y, cell.Glyph, nil, cell.Style)
		s.Screen.SetContent(px+1, y+c.Y, cell.Glyph, nil, cell.Style)
	}
	_, height := next.Size()
	return y + height
}

func (s *RenderSystem) drawHighScores(y int) int {
	if len(s.HighScores) == 0 {
		return y
	}
	drawText(s.Screen, panelX, y, subStyle, "Top scores")
	for i, hs := range s.HighScores {
		y++
		line := fmt.Sprintf("%2d. %-10.10s %5d  L%d", i+1, hs.Name, hs.Score, hs.Level)
		drawText(s.Screen, panelX, y, plain, line)
	}
	return y + 1
}

func (s *RenderSystem) drawBanner(y int, text string) {
	x := (boardWidth + 1 - len([]rune(text))) / 2
	drawText(s.Screen, x, y, bannerStyle, text)
}

func (s *RenderSystem) drawDebug(storage *ecs.Storage, y int) {
	st := storage.CollectStats()
	drawText(s.Screen, 0, y, dimStyle, fmt.Sprintf(
		"entities %d  archetypes %d  singletons %d",
		st.TotalEntityCount, st.ArchetypeCount, st.SingletonCount))
	if s.Stats == nil {
		return
	}
	sched := s.Stats()
	y++
	drawText(s.Screen, 0, y, dimStyle, fmt.Sprintf("frames %d  systems %d", sched.Frames, sched.SystemCount))
	for _, sys := range sched.Systems {
		y++
		drawText(s.Screen, 0, y, dimStyle, fmt.Sprintf("%-16s avg %-10s max %s",
			sys.Name, sys.AvgDuration.Round(time.Microsecond/10), sys.MaxDuration.Round(time.Microsecond/10)))
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
