package ecs

// System is a unit of game behavior run once per frame by a Scheduler.
// Exported Query and Singleton fields are wired during Scheduler.Register;
// any other fields are private system state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
