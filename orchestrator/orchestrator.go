// Package orchestrator implements the three-thread coordination model:
// Machine, Mixer and Capture each run their own command-queue-driven step
// loop at their own Pacer, phase-aligned at startup, and rendezvous only
// through explicit barriers for config-change, savestate, and shutdown.
package orchestrator

import (
	"sync"
	"sync/atomic"

	"github.com/ibmulator-go/ps1core/capture"
	"github.com/ibmulator-go/ps1core/chrono"
	"github.com/ibmulator-go/ps1core/logx"
	"github.com/ibmulator-go/ps1core/mixer"
	"github.com/ibmulator-go/ps1core/queue"
	"github.com/ibmulator-go/ps1core/scheduler"
)

var log = logx.For("ORCH")

// StateHooks lets the owner plumb savestate save/load into the Machine
// thread's rendezvous without this package depending on the savestate
// package (it would otherwise have to depend on everything savestate
// touches: ata, storage, the CPU/device tree).
type StateHooks interface {
	Save(path string) error
	Load(path string) error
}

// Orchestrator owns the three worker threads' pacers, command queues and
// the rendezvous barriers used for config-change, savestate and quit.
type Orchestrator struct {
	clock *chrono.Chrono

	machinePacer *chrono.Pacer
	mixerPacer   *chrono.Pacer
	capturePacer *chrono.Pacer

	machineCmds *queue.CommandQueue[MachineCommand]
	mixerCmds   *queue.CommandQueue[MixerCommand]
	captureCmds *queue.CommandQueue[capture.Command]

	machine MachineStepper
	sched   *scheduler.Scheduler
	mix     *mixer.Mixer
	capture *capture.Session
	state   StateHooks

	mu           sync.Mutex
	cyclesFactor float64
	paused       bool
	running      bool

	quit atomic.Bool
	wg   sync.WaitGroup
}

// Config bundles what New needs to assemble the three threads.
type Config struct {
	Clock             *chrono.Chrono
	MachineHeartbeatNs int64
	MixerHeartbeatNs   int64
	CaptureHeartbeatNs int64

	Machine MachineStepper
	Sched   *scheduler.Scheduler
	Mixer   *mixer.Mixer
	Capture *capture.Session
	State   StateHooks

	CommandQueueCapacity int
}

func New(cfg Config) *Orchestrator {
	qcap := cfg.CommandQueueCapacity
	if qcap <= 0 {
		qcap = 64
	}
	return &Orchestrator{
		clock:        cfg.Clock,
		machinePacer: chrono.NewPacer(cfg.Clock, cfg.MachineHeartbeatNs),
		mixerPacer:   chrono.NewPacer(cfg.Clock, cfg.MixerHeartbeatNs),
		capturePacer: chrono.NewPacer(cfg.Clock, cfg.CaptureHeartbeatNs),
		machineCmds:  queue.NewCommandQueue[MachineCommand](qcap),
		mixerCmds:    queue.NewCommandQueue[MixerCommand](qcap),
		captureCmds:  cfg.Capture.CommandQueue(),
		machine:      cfg.Machine,
		sched:        cfg.Sched,
		mix:          cfg.Mixer,
		capture:      cfg.Capture,
		state:        cfg.State,
		cyclesFactor: 1.0,
		running:      true,
	}
}

// MachineCommands exposes the Machine thread's queue so a GUI/CLI layer
// can push pause/resume/cycles-adjust commands.
func (o *Orchestrator) MachineCommands() *queue.CommandQueue[MachineCommand] { return o.machineCmds }

// MixerCommands exposes the Mixer thread's queue.
func (o *Orchestrator) MixerCommands() *queue.CommandQueue[MixerCommand] { return o.mixerCmds }

// CaptureCommands exposes the Capture thread's queue.
func (o *Orchestrator) CaptureCommands() *queue.CommandQueue[capture.Command] { return o.captureCmds }

// Start phase-aligns the Mixer and Capture pacers to the Machine's, then
// spawns all three step loops as goroutines. It returns immediately;
// call Wait to block until Quit has propagated through all three.
func (o *Orchestrator) Start() {
	o.machinePacer.Start()
	o.mixerPacer.Calibrate(o.machinePacer)
	o.capturePacer.Calibrate(o.machinePacer)

	o.wg.Add(3)
	go o.runMachine()
	go o.runMixer()
	go o.runCapture()
}

// Wait blocks until every worker thread has observed quit.
func (o *Orchestrator) Wait() { o.wg.Wait() }

func (o *Orchestrator) runMachine() {
	defer o.wg.Done()
	for !o.quit.Load() {
		for _, c := range o.machineCmds.DrainAll() {
			o.handleMachineCommand(c)
		}
		if o.quit.Load() {
			break
		}
		o.mu.Lock()
		paused := o.paused
		factor := o.cyclesFactor
		o.mu.Unlock()
		if !paused {
			now := o.clock.NowNs()
			heartbeat := o.machinePacer.HeartbeatNs()
			o.machine.Step(now, heartbeat, factor)
			if o.sched != nil {
				o.sched.Advance(int64(float64(heartbeat) * factor))
			}
		}
		o.machinePacer.Wait()
	}
}

func (o *Orchestrator) handleMachineCommand(c MachineCommand) {
	switch c.Kind {
	case MachinePause:
		o.mu.Lock()
		o.paused = true
		o.mu.Unlock()
	case MachineResume:
		o.mu.Lock()
		o.paused = false
		o.mu.Unlock()
	case MachineCyclesAdjust:
		o.mu.Lock()
		factor, shouldPause := ClampCyclesFactor(o.cyclesFactor + c.CyclesDelta)
		o.cyclesFactor = factor
		if shouldPause {
			o.paused = true
			log.Warning("cycles factor hit floor, auto-pausing", "factor", factor)
		}
		o.mu.Unlock()
	case MachineConfigChanged, MachineSaveState, MachineLoadState:
		o.runMachineRendezvous(c)
	case MachineQuit:
		o.quit.Store(true)
	}
	if c.Barrier != nil && c.Kind != MachineConfigChanged && c.Kind != MachineSaveState && c.Kind != MachineLoadState {
		c.Barrier.Arrive()
	}
}

// runMachineRendezvous pauses, performs the requested action (re-read
// config is a no-op at this layer; save/load delegates to StateHooks),
// then arrives at the barrier so the issuing thread and its peers
// release together.
func (o *Orchestrator) runMachineRendezvous(c MachineCommand) {
	o.mu.Lock()
	wasPaused := o.paused
	o.paused = true
	o.mu.Unlock()

	var err error
	switch c.Kind {
	case MachineSaveState:
		if o.state != nil {
			err = o.state.Save(c.StatePath)
		}
	case MachineLoadState:
		if o.state != nil {
			err = o.state.Load(c.StatePath)
		}
	}
	if err != nil {
		log.Error("machine rendezvous action failed", "kind", c.Kind, "error", err)
	}

	o.mu.Lock()
	o.paused = wasPaused
	o.mu.Unlock()

	if c.Barrier != nil {
		c.Barrier.Arrive()
	}
}

func (o *Orchestrator) runMixer() {
	defer o.wg.Done()
	for !o.quit.Load() {
		for _, c := range o.mixerCmds.DrainAll() {
			o.handleMixerCommand(c)
		}
		if o.quit.Load() {
			break
		}
		now := o.clock.NowNs()
		o.mu.Lock()
		factor := o.cyclesFactor
		o.mu.Unlock()
		o.mix.Step(now, factor)
		o.mixerPacer.Wait()
	}
}

func (o *Orchestrator) handleMixerCommand(c MixerCommand) {
	switch c.Kind {
	case MixerConfigChanged:
		// The mixer re-reads per-channel/category config through its own
		// setters, called directly by the config layer before this
		// rendezvous point; nothing further to do here.
	case MixerStopAndSignal:
		// Drain the ring so the host device stops cleanly before the
		// barrier releases, matching the stop-audio-cards-and-signal
		// sequence used for savestate and shutdown.
		o.mix.Ring().Reset()
	case MixerQuit:
		o.quit.Store(true)
	}
	if c.Barrier != nil {
		c.Barrier.Arrive()
	}
}

func (o *Orchestrator) runCapture() {
	defer o.wg.Done()
	for !o.quit.Load() && !o.capture.Done() {
		o.mu.Lock()
		running := !o.paused
		o.mu.Unlock()
		o.capture.SetMachineRunning(running)
		o.capture.Step(o.capturePacer.HeartbeatNs())
		o.capturePacer.Wait()
	}
}

// RequestConfigChange pushes a config-change command to all three
// workers and blocks until every one of them (plus this caller) has
// arrived at the shared barrier.
func (o *Orchestrator) RequestConfigChange() {
	b := NewBarrier(4)
	o.machineCmds.Push(MachineCommand{Kind: MachineConfigChanged, Barrier: b})
	o.mixerCmds.Push(MixerCommand{Kind: MixerConfigChanged, Barrier: b})
	o.captureCmds.Push(capture.Command{Kind: capture.CmdConfigChanged, Barrier: b})
	b.Arrive()
}

// RequestSaveState pauses the Machine thread, invokes StateHooks.Save,
// and resumes, blocking the caller until the rendezvous completes.
func (o *Orchestrator) RequestSaveState(path string) {
	b := NewBarrier(2)
	o.machineCmds.Push(MachineCommand{Kind: MachineSaveState, StatePath: path, Barrier: b})
	b.Arrive()
}

// RequestLoadState mirrors RequestSaveState for restore.
func (o *Orchestrator) RequestLoadState(path string) {
	b := NewBarrier(2)
	o.machineCmds.Push(MachineCommand{Kind: MachineLoadState, StatePath: path, Barrier: b})
	b.Arrive()
}

// RequestQuit signals all three workers to stop. Pending timed macros in
// the input engine are dropped by the owner of that engine, not here;
// this only stops the Machine/Mixer/Capture step loops.
func (o *Orchestrator) RequestQuit() {
	o.machineCmds.Push(MachineCommand{Kind: MachineQuit})
	o.mixerCmds.Push(MixerCommand{Kind: MixerQuit})
	o.captureCmds.Push(capture.Command{Kind: capture.CmdQuit})
	o.quit.Store(true)
}

// Pause/Resume/AdjustCycles are convenience wrappers over the Machine
// command queue for callers that don't need a rendezvous.
func (o *Orchestrator) Pause()  { o.machineCmds.Push(MachineCommand{Kind: MachinePause}) }
func (o *Orchestrator) Resume() { o.machineCmds.Push(MachineCommand{Kind: MachineResume}) }
func (o *Orchestrator) AdjustCycles(delta float64) {
	o.machineCmds.Push(MachineCommand{Kind: MachineCyclesAdjust, CyclesDelta: delta})
}

// CurrentStatus returns a point-in-time snapshot for a CLI/GUI status
// surface.
func (o *Orchestrator) CurrentStatus() Status {
	o.mu.Lock()
	paused := o.paused
	factor := o.cyclesFactor
	running := o.running
	o.mu.Unlock()

	pending := 0
	if o.sched != nil {
		pending = o.sched.PendingCount()
	}

	return Status{
		Running:         running && !o.quit.Load(),
		Paused:          paused,
		CyclesFactor:    factor,
		RingOccupancyUs: o.mix.RingOccupancyUs(),
		ActiveChannels:  o.mix.ActiveChannelCount(),
		Recording:       o.capture.IsRecording(),
		PendingTimers:   pending,
	}
}
