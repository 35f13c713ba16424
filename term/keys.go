package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/plus3/unictris/game"
)

// ActionFor maps a key press to a game action. Unbound keys map to
// game.ActionNone.
func ActionFor(ev *tcell.EventKey) game.Action {
	switch ev.Key() {
	case tcell.KeyLeft:
		return game.MoveLeft
	case tcell.KeyRight:
		return game.MoveRight
	case tcell.KeyUp:
		return game.Rotate
	case tcell.KeyDown:
		return game.Drop
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Quit
	case tcell.KeyCtrlL:
		return game.Redraw
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return game.Quit
		case ' ':
			return game.Pause
		case 'r', 'R':
			return game.Restart
		case 'd', 'D':
			return game.ToggleDebug
		}
	}
	return game.ActionNone
}
