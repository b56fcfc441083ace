package orchestrator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ibmulator-go/ps1core/capture"
	"github.com/ibmulator-go/ps1core/chrono"
	"github.com/ibmulator-go/ps1core/mixer"
	"github.com/ibmulator-go/ps1core/queue"
	"github.com/ibmulator-go/ps1core/scheduler"
	"github.com/stretchr/testify/assert"
)

func TestBarrierReleasesAllArrivals(t *testing.T) {
	b := NewBarrier(3)
	var done int32
	for i := 0; i < 2; i++ {
		go func() {
			b.Arrive()
			atomic.AddInt32(&done, 1)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt32(&done), "must not release before all arrive")
	b.Arrive()
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 2, atomic.LoadInt32(&done))
}

func TestBarrierReusableAcrossGenerations(t *testing.T) {
	b := NewBarrier(2)
	for gen := 0; gen < 3; gen++ {
		done := make(chan struct{})
		go func() {
			b.Arrive()
			close(done)
		}()
		b.Arrive()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("generation %d never released", gen)
		}
	}
}

func TestClampCyclesFactor(t *testing.T) {
	f, pause := ClampCyclesFactor(1.0)
	assert.Equal(t, 1.0, f)
	assert.False(t, pause)

	f, pause = ClampCyclesFactor(0.0)
	assert.Equal(t, CyclesFactorMin, f)
	assert.True(t, pause)

	f, pause = ClampCyclesFactor(10.0)
	assert.Equal(t, CyclesFactorMax, f)
	assert.False(t, pause)
}

type countingStepper struct{ steps int32 }

func (s *countingStepper) Step(nowNs, heartbeatNs int64, cyclesFactor float64) {
	atomic.AddInt32(&s.steps, 1)
}

type noFrames struct{}

func (noFrames) PopTimeout(timeout time.Duration) (capture.Frame, bool) { return capture.Frame{}, false }

func newTestOrchestrator(t *testing.T) (*Orchestrator, *countingStepper) {
	t.Helper()
	orig := chrono.SleepFunc
	chrono.SleepFunc = func(time.Duration) {}
	t.Cleanup(func() { chrono.SleepFunc = orig })

	clk := chrono.New()
	stepper := &countingStepper{}
	sched := scheduler.New()
	mix := mixer.New(mixer.OutputSpec{RateHz: 48000, Channels: 2}, int64(10*time.Millisecond), 20000, 1<<16)
	capCmds := queue.NewCommandQueue[capture.Command](8)
	capPacer := chrono.NewPacer(clk, int64(10*time.Millisecond))
	capSession := capture.NewSession(capCmds, capPacer, noFrames{})

	o := New(Config{
		Clock:              clk,
		MachineHeartbeatNs: int64(10 * time.Millisecond),
		MixerHeartbeatNs:   int64(10 * time.Millisecond),
		CaptureHeartbeatNs: int64(10 * time.Millisecond),
		Machine:            stepper,
		Sched:              sched,
		Mixer:              mix,
		Capture:            capSession,
	})
	return o, stepper
}

func TestOrchestratorStepsMachineUntilQuit(t *testing.T) {
	o, stepper := newTestOrchestrator(t)
	o.Start()

	deadline := time.Now().Add(time.Second)
	for atomic.LoadInt32(&stepper.steps) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Greater(t, atomic.LoadInt32(&stepper.steps), int32(0))

	o.RequestQuit()
	done := make(chan struct{})
	go func() { o.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("orchestrator did not quit")
	}
}

func TestOrchestratorPauseStopsStepping(t *testing.T) {
	o, stepper := newTestOrchestrator(t)
	o.Start()
	o.Pause()

	time.Sleep(30 * time.Millisecond)
	before := atomic.LoadInt32(&stepper.steps)
	time.Sleep(30 * time.Millisecond)
	after := atomic.LoadInt32(&stepper.steps)
	assert.Equal(t, before, after, "no steps should occur while paused")

	o.RequestQuit()
	o.Wait()
}

func TestOrchestratorConfigChangeRendezvous(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	o.Start()

	done := make(chan struct{})
	go func() {
		o.RequestConfigChange()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("config change rendezvous never completed")
	}

	o.RequestQuit()
	o.Wait()
}

func TestOrchestratorStatusSnapshot(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	st := o.CurrentStatus()
	assert.Equal(t, 1.0, st.CyclesFactor)
	assert.False(t, st.Paused)
	assert.False(t, st.Recording)
}
