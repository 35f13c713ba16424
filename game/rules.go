package game

// Settings controls game pacing. Time is measured in simulation ticks.
type Settings struct {
	// DropFrames is the gravity period at level 1.
	DropFrames uint64
	// LevelTicks is how many ticks each level lasts.
	LevelTicks uint64
	// FlashTicks is how long a cleared row stays highlighted.
	FlashTicks int
}

// DefaultSettings matches a 10ms tick: one row every 0.3s at level 1 and a
// new level roughly every minute.
func DefaultSettings() Settings {
	return Settings{
		DropFrames: 30,
		LevelTicks: 6000,
		FlashTicks: 12,
	}
}

// withDefaults fills every zero field from DefaultSettings.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.DropFrames == 0 {
		s.DropFrames = def.DropFrames
	}
	if s.LevelTicks == 0 {
		s.LevelTicks = def.LevelTicks
	}
	if s.FlashTicks <= 0 {
		s.FlashTicks = def.FlashTicks
	}
	return s
}

// Level returns the level reached at tick, starting from 1.
func (s Settings) Level(tick uint64) int {
	return 1 + int(tick/s.LevelTicks)
}

// GravityDue reports whether the piece falls one row on tick. At level L
// the piece falls on L ticks out of every DropFrames.
func (s Settings) GravityDue(tick uint64) bool {
	return tick%s.DropFrames <= tick/s.LevelTicks
}

// TryRotate turns the piece one step clockwise. If the turned shape would
// overhang the right wall it is shifted left until it fits. It returns the
// new rotation and column and false if the result collides.
func TryRotate(field *Playfield, kind Kind, rotation, x, y int) (int, int, bool) {
	next := (rotation + 1) % Rotations
	shape := ShapeOf(kind, next)
	width, _ := shape.Size()

	nx := x
	if nx+width > field.Width {
		nx = field.Width - width
	}
	if field.Collides(shape, nx, y) {
		return rotation, x, false
	}
	return next, nx, true
}

// TryShift moves the piece dx columns if the destination is free.
func TryShift(field *Playfield, kind Kind, rotation, x, y, dx int) (int, bool) {
	if field.Collides(ShapeOf(kind, rotation), x+dx, y) {
		return x, false
	}
	return x + dx, true
}
