package game

import "github.com/plus3/unictris/ecs"

type activePiece = struct {
	ecs.EntityId
	*Position
	*Piece
}

// InputSystem applies every action queued since the previous tick.
type InputSystem struct {
	Active  ecs.Query[activePiece]
	Session ecs.Singleton[Session]
	Field   ecs.Singleton[Playfield]
	Display ecs.Singleton[Display]

	// Actions is drained without blocking. A closed channel means the
	// frontend is gone and is treated as a quit.
	Actions <-chan Action
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	for {
		select {
		case action, ok := <-s.Actions:
			if !ok {
				s.Actions = nil
				s.Session.Get().Quit = true
				return
			}
			s.apply(action)
		default:
			return
		}
	}
}

func (s *InputSystem) apply(action Action) {
	session := s.Session.Get()
	display := s.Display.Get()

	switch action {
	case Quit:
		session.Quit = true
	case Restart:
		session.RestartRequested = true
	case Pause:
		if !session.Over {
			session.Paused = !session.Paused
		}
	case ToggleDebug:
		display.Debug = !display.Debug
	case Redraw:
		display.Resync = true
	}

	if !action.moves() || session.Paused || session.Over || session.Landed {
		return
	}
	piece, ok := s.Active.First()
	if !ok {
		return
	}
	field := s.Field.Get()

	switch action {
	case MoveLeft:
		piece.Position.X, _ = TryShift(field, piece.Kind, piece.Rotation, piece.Position.X, piece.Position.Y, -1)
	case MoveRight:
		piece.Position.X, _ = TryShift(field, piece.Kind, piece.Rotation, piece.Position.X, piece.Position.Y, 1)
	case Rotate:
		piece.Rotation, piece.Position.X, _ = TryRotate(field, piece.Kind, piece.Rotation, piece.Position.X, piece.Position.Y)
	case Drop:
		piece.Position.Y = field.DropRow(piece.Shape(), piece.Position.X, piece.Position.Y)
		session.Landed = true
	}
}

// ResetSystem starts a fresh game when a restart was requested.
type ResetSystem struct {
	Pieces ecs.Query[struct {
		ecs.EntityId
		*Piece
	}]
	Flashes ecs.Query[struct {
		ecs.EntityId
		*Flash
	}]
	Session ecs.Singleton[Session]
	Field   ecs.Singleton[Playfield]
}

func (s *ResetSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if !session.RestartRequested {
		return
	}

	for row := range s.Pieces.Iter() {
		frame.Storage.Delete(row.EntityId)
	}
	for row := range s.Flashes.Iter() {
		frame.Storage.Delete(row.EntityId)
	}
	s.Field.Get().Reset()

	next, hasNext := session.Next, session.HasNext
	*session = newSession()
	session.Next, session.HasNext = next, hasNext
}

// GravitySystem advances the tick counter and pulls the piece down.
type GravitySystem struct {
	Active   ecs.Query[activePiece]
	Session  ecs.Singleton[Session]
	Field    ecs.Singleton[Playfield]
	Settings ecs.Singleton[Settings]
}

func (s *GravitySystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Paused || session.Over {
		return
	}

	settings := s.Settings.Get()
	session.Tick++
	session.Level = settings.Level(session.Tick)

	if session.Landed || !settings.GravityDue(session.Tick) {
		return
	}
	piece, ok := s.Active.First()
	if !ok {
		return
	}
	if s.Field.Get().Collides(piece.Shape(), piece.Position.X, piece.Position.Y+1) {
		session.Landed = true
		return
	}
	piece.Position.Y++
}

// LockSystem settles a landed piece, clears full rows and scores them.
type LockSystem struct {
	Active   ecs.Query[activePiece]
	Session  ecs.Singleton[Session]
	Field    ecs.Singleton[Playfield]
	Settings ecs.Singleton[Settings]
}

func (s *LockSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if !session.Landed {
		return
	}
	session.Landed = false

	piece, ok := s.Active.First()
	if !ok {
		return
	}
	if piece.Position.Y == 0 {
		// The stack reaches the spawn row.
		session.Over = true
		return
	}

	field := s.Field.Get()
	field.Place(piece.Shape(), piece.Position.X, piece.Position.Y, piece.Kind)
	frame.Storage.Delete(piece.EntityId)
	session.Pieces++

	cleared := field.ClearFullRows()
	session.Score += len(cleared)
	session.Lines += len(cleared)

	ttl := s.Settings.Get().FlashTicks
	for _, row := range cleared {
		frame.Commands.Spawn(Flash{Row: row, TTL: ttl})
	}
}

// SpawnSystem brings in the next piece whenever none is falling.
type SpawnSystem struct {
	Active  ecs.Query[struct{ *Piece }]
	Session ecs.Singleton[Session]
	Field   ecs.Singleton[Playfield]
	Random  ecs.Singleton[Randomizer]
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Over || s.Active.Len() > 0 {
		return
	}

	random := s.Random.Get()
	if !session.HasNext {
		session.Next, session.HasNext = random.Draw(), true
	}
	piece := Piece{Kind: session.Next.Kind, Rotation: session.Next.Rotation}
	session.Next = random.Draw()

	field := s.Field.Get()
	shape := piece.Shape()
	width, _ := shape.Size()
	pos := Position{X: random.Column(field.Width - width + 1), Y: 0}

	frame.Storage.Spawn(pos, piece)
	if field.Collides(shape, pos.X, pos.Y) {
		session.Over = true
	}
}

// FlashSystem ages cleared-row highlights.
type FlashSystem struct {
	Flashes ecs.Query[struct {
		ecs.EntityId
		*Flash
	}]
	Session ecs.Singleton[Session]
}

func (s *FlashSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Session.Get().Paused {
		return
	}
	for row := range s.Flashes.Iter() {
		row.Flash.TTL--
		if row.Flash.TTL <= 0 {
			frame.Commands.Delete(row.EntityId)
		}
	}
}

// SessionSystem reports finished games and ends the run on quit. It runs
// after every other system so it sees the final state of the tick.
type SessionSystem struct {
	Session ecs.Singleton[Session]

	// Record receives each finished game once. Optional.
	Record func(Result)
	// Stop is called once when the player quits. Optional.
	Stop func()

	stopped bool
}

func (s *SessionSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()

	if session.Over && !session.Recorded {
		s.report(session)
	}
	if session.Quit && !s.stopped {
		if !session.Recorded && session.Pieces > 0 {
			s.report(session)
		}
		s.stopped = true
		if s.Stop != nil {
			s.Stop()
		}
	}
}

func (s *SessionSystem) report(session *Session) {
	session.Recorded = true
	if s.Record != nil {
		s.Record(session.result())
	}
}
