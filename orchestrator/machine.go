package orchestrator

// MachineStepper advances the emulated machine by one heartbeat at the
// current cycles factor. CPU and device emulation live entirely behind
// this seam; the orchestrator only owns timing and rendezvous.
type MachineStepper interface {
	Step(nowNs int64, heartbeatNs int64, cyclesFactor float64)
}

// NullStepper is a MachineStepper that does nothing, useful for driving
// the thread model in isolation (tests, headless smoke runs without a
// machine wired up yet).
type NullStepper struct{}

func (NullStepper) Step(nowNs int64, heartbeatNs int64, cyclesFactor float64) {}
