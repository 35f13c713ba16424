package game

// Position is the playfield cell of a piece's bounding box origin.
type Position struct {
	X, Y int
}

// Piece marks the falling piece.
type Piece struct {
	Kind     Kind
	Rotation int
}

// Shape returns the piece's current shape.
func (p Piece) Shape() Shape {
	return ShapeOf(p.Kind, p.Rotation)
}

// Flash highlights a cleared row for TTL ticks.
type Flash struct {
	Row int
	TTL int
}

// Preview is an upcoming piece.
type Preview struct {
	Kind     Kind
	Rotation int
}

// Session is the state of the game in progress.
type Session struct {
	Score  int
	Lines  int
	Pieces int
	Level  int
	Tick   uint64

	Next    Preview
	HasNext bool

	Paused bool
	Over   bool
	Quit   bool
	// Landed is set when the piece can no longer fall and must lock.
	Landed bool
	// RestartRequested is consumed by ResetSystem.
	RestartRequested bool
	// Recorded is set once the game's result has been reported.
	Recorded bool
}

// Display holds frontend toggles driven by input.
type Display struct {
	Ghost  bool
	Debug  bool
	Resync bool
}

// Result summarizes a finished game.
type Result struct {
	Score  int
	Level  int
	Lines  int
	Pieces int
	Ticks  uint64
}

func (s *Session) result() Result {
	return Result{
		Score:  s.Score,
		Level:  s.Level,
		Lines:  s.Lines,
		Pieces: s.Pieces,
		Ticks:  s.Tick,
	}
}

func newSession() Session {
	return Session{Level: 1}
}
