package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTimerFiresExactlyOnceAtDeadline(t *testing.T) {
	s := New()
	var fired int
	var observedNow int64
	id := s.RegisterTimer(func(now int64) {
		fired++
		observedNow = now
	}, "t1")
	s.ActivateTimer(id, 1000, true)

	s.Advance(500)
	assert.Equal(t, 0, fired)

	s.Advance(600)
	assert.Equal(t, 1, fired)
	assert.GreaterOrEqual(t, observedNow, int64(1000))

	// One-shot timer does not refire.
	s.Advance(10000)
	assert.Equal(t, 1, fired)
}

func TestRepeatingTimerReinserts(t *testing.T) {
	s := New()
	var fired int
	id := s.RegisterTimer(func(int64) { fired++ }, "periodic")
	s.ActivateTimer(id, 100, false)

	s.Advance(1000) // should fire 10 times (100,200,...,1000)
	assert.Equal(t, 10, fired)
}

func TestDeactivateIsIdempotent(t *testing.T) {
	s := New()
	id := s.RegisterTimer(func(int64) {}, "x")
	s.ActivateTimer(id, 100, true)
	s.DeactivateTimer(id)
	assert.False(t, s.IsActive(id))
	// second call must not panic or misbehave
	s.DeactivateTimer(id)
	assert.False(t, s.IsActive(id))
}

func TestDeadlineOrderingWithTieBreak(t *testing.T) {
	s := New()
	var order []string
	a := s.RegisterTimer(func(int64) { order = append(order, "a") }, "a")
	b := s.RegisterTimer(func(int64) { order = append(order, "b") }, "b")
	// Both fire at the same virtual deadline; a was activated first.
	s.ActivateTimer(a, 100, true)
	s.ActivateTimer(b, 100, true)
	s.Advance(100)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestCallbackCanActivateAnotherTimer(t *testing.T) {
	s := New()
	var order []string
	var second TimerID
	first := s.RegisterTimer(func(int64) {
		order = append(order, "first")
		s.ActivateTimer(second, 10, true)
	}, "first")
	second = s.RegisterTimer(func(int64) {
		order = append(order, "second")
	}, "second")

	s.ActivateTimer(first, 100, true)
	s.Advance(100) // fires first, which arms second for +10
	assert.Equal(t, []string{"first"}, order)
	s.Advance(10)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestCallbackCanCancelSelf(t *testing.T) {
	s := New()
	var id TimerID
	fired := 0
	id = s.RegisterTimer(func(int64) {
		fired++
		s.DeactivateTimer(id)
	}, "self-cancel")
	s.ActivateTimer(id, 50, false)
	s.Advance(50)
	assert.Equal(t, 1, fired)
	assert.False(t, s.IsActive(id))
}

func TestVirtualTimeMonotone(t *testing.T) {
	s := New()
	require.Equal(t, int64(0), s.NowNs())
	s.Advance(1000)
	assert.Equal(t, int64(1000), s.NowNs())
	s.Advance(500)
	assert.Equal(t, int64(1500), s.NowNs())
}

// TestSchedulerInvariantProperty checks the core scheduler invariant: an active timer
// with deadline d never fires before now reaches d, and fires at most once
// per activation.
func TestSchedulerInvariantProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New()
		n := rapid.IntRange(1, 12).Draw(rt, "numTimers")

		type record struct {
			id       TimerID
			deadline int64
			fires    int
		}
		recs := make([]*record, n)
		for i := 0; i < n; i++ {
			r := &record{}
			recs[i] = r
			r.id = s.RegisterTimer(func(now int64) {
				r.fires++
				if now < r.deadline {
					rt.Fatalf("timer fired before its deadline: now=%d deadline=%d", now, r.deadline)
				}
			}, "p")
		}

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for step := 0; step < steps; step++ {
			// Possibly (re)activate some timers with a fresh deadline.
			for i := 0; i < n; i++ {
				if rapid.Bool().Draw(rt, "activate") {
					delay := int64(rapid.IntRange(1, 1000).Draw(rt, "delay"))
					recs[i].deadline = s.NowNs() + delay
					recs[i].fires = 0
					s.ActivateTimer(recs[i].id, delay, true)
				}
			}
			elapsed := int64(rapid.IntRange(0, 500).Draw(rt, "elapsed"))
			s.Advance(elapsed)
			for _, r := range recs {
				if r.fires > 1 {
					rt.Fatalf("timer fired more than once per activation: %d", r.fires)
				}
			}
		}
	})
}
