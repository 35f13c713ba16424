package game

import (
	"time"

	"github.com/plus3/unictris/ecs"
)

// Options configures a World.
type Options struct {
	Settings Settings
	Seed     uint64
	Ghost    bool
	// Actions feeds player commands into the InputSystem.
	Actions <-chan Action
	// Frontend systems run after the simulation and before SessionSystem,
	// so they see the final state of every tick.
	Frontend []ecs.System
	Record   func(Result)
	Stop     func()
}

// World is a ready-to-run game: storage, singletons and scheduler.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	session *ecs.Singleton[Session]
	field   *ecs.Singleton[Playfield]
	display *ecs.Singleton[Display]
	active  *ecs.View[activePiece]
}

// NewRegistry registers every component the game spawns.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Piece](registry)
	ecs.RegisterComponent[Flash](registry)
	return registry
}

// NewWorld builds a world with an empty playfield. The first piece
// appears on the first tick.
func NewWorld(opts Options) *World {
	opts.Settings = opts.Settings.withDefaults()

	storage := ecs.NewStorage(NewRegistry())
	w := &World{
		Storage: storage,
		session: ecs.NewSingleton(storage, newSession()),
		field:   ecs.NewSingleton(storage, NewPlayfield(Width, Height)),
		display: ecs.NewSingleton(storage, Display{Ghost: opts.Ghost}),
		active:  ecs.NewView[activePiece](storage),
	}
	ecs.NewSingleton(storage, opts.Settings)
	ecs.NewSingleton(storage, NewRandomizer(opts.Seed))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&InputSystem{Actions: opts.Actions})
	scheduler.Register(&ResetSystem{})
	scheduler.Register(&GravitySystem{})
	scheduler.Register(&LockSystem{})
	scheduler.Register(&SpawnSystem{})
	scheduler.Register(&FlashSystem{})
	for _, system := range opts.Frontend {
		scheduler.Register(system)
	}
	scheduler.Register(&SessionSystem{Record: opts.Record, Stop: opts.Stop})
	w.Scheduler = scheduler

	return w
}

// Step runs one simulation tick.
func (w *World) Step(dt time.Duration) {
	w.Scheduler.Once(dt.Seconds())
}

// Session returns the live session state.
func (w *World) Session() *Session {
	return w.session.Get()
}

// Quit ends the game from outside the tick loop and runs one last tick so
// the result is reported and Stop is called. Use it only while the
// scheduler is not running.
func (w *World) Quit() {
	w.session.Get().Quit = true
	w.Step(0)
}

// Result summarizes the game so far.
func (w *World) Result() Result {
	return w.session.Get().result()
}

// Playfield returns the live grid.
func (w *World) Playfield() *Playfield {
	return w.field.Get()
}

// Display returns the live frontend toggles.
func (w *World) Display() *Display {
	return w.display.Get()
}

// ActivePiece returns the falling piece, if any.
func (w *World) ActivePiece() (Position, Piece, bool) {
	for row := range w.active.Iter() {
		return *row.Position, *row.Piece, true
	}
	return Position{}, Piece{}, false
}
