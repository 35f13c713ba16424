package ecs

// UpdateFrame is handed to every system during one Scheduler step.
type UpdateFrame struct {
	// DeltaTime is the wall time in seconds since the previous step.
	DeltaTime float64
	// Frame counts scheduler steps, starting at 1.
	Frame    uint64
	Commands *Commands
	Storage  *Storage
}
