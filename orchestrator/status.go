package orchestrator

// Status is a point-in-time snapshot of the three worker threads, returned
// by Orchestrator.CurrentStatus for diagnostics. It never blocks
// on a worker: every field is read from state the owning thread already
// publishes under its own lock.
type Status struct {
	Running      bool
	Paused       bool
	CyclesFactor float64

	RingOccupancyUs   int64
	ActiveChannels    int

	Recording bool

	PendingTimers int
}
