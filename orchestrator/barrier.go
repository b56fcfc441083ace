// Package orchestrator implements the three-thread coordination model:
// Machine, Mixer and Capture each run their own command-queue-driven step
// loop at their own Pacer, phase-aligned at startup, and rendezvous only
// through explicit barriers for config-change, savestate, and shutdown.
package orchestrator

import "sync"

// Barrier implements the `sig_config_changed(mtx, cv)` rendezvous as a
// generation-counted mutual wait: the issuing thread and every worker
// each call Arrive once they've done their part (issuing the signal;
// pausing/flushing/re-reading config under their own lock), and the
// last arrival releases all of them together. This is the same
// lock/wait/notify rendezvous used for config-change, savestate
// checkpoints, and the stop-audio-and-signal sequence, just expressed
// symmetrically: the issuing thread is counted as one of workerCount.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	target  int
	gen     uint64
}

func NewBarrier(workerCount int) *Barrier {
	b := &Barrier{target: workerCount}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Arrive is called by a worker once it has paused/flushed/re-read config
// under its own lock; it blocks until every worker for this generation
// has arrived, then all are released together.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	defer b.mu.Unlock()
	myGen := b.gen
	b.arrived++
	if b.arrived == b.target {
		b.gen++
		b.arrived = 0
		b.cond.Broadcast()
		return
	}
	for b.gen == myGen {
		b.cond.Wait()
	}
}
