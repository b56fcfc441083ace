// Package chrono implements the C1 Chrono/Pacer component: a steady-clock
// time source and a frame pacer that keeps the Machine, Mixer and Capture
// threads' step loops on a shared, phase-aligned heartbeat without
// cumulative catch-up.
package chrono

import (
	"sync"
	"time"
)

// Chrono exposes monotonic wall-clock readings. It wraps time.Now() behind
// a type so tests can inject a fake clock without threading a dependency
// through every caller.
type Chrono struct {
	start time.Time
}

func New() *Chrono {
	return &Chrono{start: time.Now()}
}

// NowNs returns nanoseconds elapsed since the Chrono was created.
func (c *Chrono) NowNs() int64 {
	return time.Since(c.start).Nanoseconds()
}

// NowUs returns microseconds elapsed since the Chrono was created.
func (c *Chrono) NowUs() int64 {
	return c.NowNs() / 1000
}

// Since returns the wall-clock duration since t0 (an earlier NowNs value).
func (c *Chrono) Since(t0Ns int64) time.Duration {
	return time.Duration(c.NowNs()-t0Ns) * time.Nanosecond
}

// Pacer sleeps a step loop to a fixed heartbeat, resynchronizing to
// now+heartbeat on overrun instead of accumulating catch-up debt.
type Pacer struct {
	mu            sync.Mutex
	chrono        *Chrono
	heartbeatNs   int64
	nextDeadlineNs int64
	lastDriftNs   int64
}

// NewPacer creates a Pacer with the given heartbeat (e.g. 10ms = 10_000_000ns).
func NewPacer(c *Chrono, heartbeatNs int64) *Pacer {
	return &Pacer{chrono: c, heartbeatNs: heartbeatNs}
}

// Start arms the pacer's first deadline relative to now.
func (p *Pacer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextDeadlineNs = p.chrono.NowNs() + p.heartbeatNs
}

// Calibrate aligns this pacer's next deadline to a peer's, so two pacers
// share the same phase (all three worker pacers are calibrated
// from the Machine's at startup).
func (p *Pacer) Calibrate(peer *Pacer) {
	peer.mu.Lock()
	peerDeadline := peer.nextDeadlineNs
	peer.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextDeadlineNs = peerDeadline
}

// SleepFunc is injectable for tests; defaults to a real sleep.
var SleepFunc = time.Sleep

// Wait sleeps until the next heartbeat deadline and advances it. If the
// caller's load already exceeded the heartbeat budget, the next deadline
// resynchronizes to now+heartbeat rather than scheduling the missed
// deadlines back-to-back (no cumulative catch-up).
func (p *Pacer) Wait() (sleptNs int64) {
	p.mu.Lock()
	now := p.chrono.NowNs()
	deadline := p.nextDeadlineNs
	heartbeat := p.heartbeatNs
	p.mu.Unlock()

	if now >= deadline {
		// Overran the budget: resync, no catch-up.
		p.mu.Lock()
		p.lastDriftNs = now - deadline
		p.nextDeadlineNs = now + heartbeat
		p.mu.Unlock()
		return 0
	}

	toSleep := deadline - now
	SleepFunc(time.Duration(toSleep) * time.Nanosecond)

	p.mu.Lock()
	p.lastDriftNs = p.chrono.NowNs() - deadline
	p.nextDeadlineNs = deadline + heartbeat
	p.mu.Unlock()

	return toSleep
}

// Drift returns the last observed (actual-wake − ideal-deadline) error,
// surfaced for diagnostics only; it never feeds back into scheduling.
func (p *Pacer) Drift() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(p.lastDriftNs)
}

// HeartbeatNs returns the pacer's configured heartbeat.
func (p *Pacer) HeartbeatNs() int64 {
	return p.heartbeatNs
}

// SetHeartbeatNs changes the heartbeat without resetting phase.
func (p *Pacer) SetHeartbeatNs(ns int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.heartbeatNs = ns
}
