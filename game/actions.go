package game

// Action is a player command delivered by a frontend.
type Action uint8

const (
	ActionNone Action = iota
	MoveLeft
	MoveRight
	Rotate
	Drop
	Pause
	Quit
	Restart
	ToggleDebug
	Redraw
)

var actionNames = [...]string{
	ActionNone:  "none",
	MoveLeft:    "left",
	MoveRight:   "right",
	Rotate:      "rotate",
	Drop:        "drop",
	Pause:       "pause",
	Quit:        "quit",
	Restart:     "restart",
	ToggleDebug: "debug",
	Redraw:      "redraw",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// moves reports whether the action manipulates the falling piece.
func (a Action) moves() bool {
	switch a {
	case MoveLeft, MoveRight, Rotate, Drop:
		return true
	}
	return false
}
