package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerNoCumulativeCatchUp(t *testing.T) {
	orig := SleepFunc
	defer func() { SleepFunc = orig }()

	var slept []time.Duration
	SleepFunc = func(d time.Duration) {
		slept = append(slept, d)
	}

	c := New()
	p := NewPacer(c, int64(10*time.Millisecond))
	p.Start()

	// First wait should sleep roughly the heartbeat.
	p.Wait()
	assert.Len(t, slept, 1)

	// Simulate heavy load by forcing the next deadline into the past.
	p.mu.Lock()
	p.nextDeadlineNs = c.NowNs() - int64(50*time.Millisecond)
	p.mu.Unlock()

	sleptNs := p.Wait()
	assert.Equal(t, int64(0), sleptNs, "overrun must not sleep to catch up")

	// The next deadline must resync to now+heartbeat, not now+50ms+heartbeat.
	p.mu.Lock()
	next := p.nextDeadlineNs
	p.mu.Unlock()
	assert.InDelta(t, c.NowNs()+p.HeartbeatNs(), next, float64(2*time.Millisecond))
}

func TestPacerCalibrateSharesPhase(t *testing.T) {
	c := New()
	a := NewPacer(c, int64(10*time.Millisecond))
	b := NewPacer(c, int64(10*time.Millisecond))

	a.Start()
	b.Calibrate(a)

	a.mu.Lock()
	aDeadline := a.nextDeadlineNs
	a.mu.Unlock()
	b.mu.Lock()
	bDeadline := b.nextDeadlineNs
	b.mu.Unlock()

	assert.Equal(t, aDeadline, bDeadline)
}
