package capture

import (
	"time"

	"github.com/ibmulator-go/ps1core/chrono"
	"github.com/ibmulator-go/ps1core/logx"
	"github.com/ibmulator-go/ps1core/queue"
)

var log = logx.For("CAPTURE")

// CommandKind enumerates the capture thread's command vocabulary.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdStop
	CmdToggle
	CmdConfigChanged
	CmdQuit
)

// Arriver is satisfied by a rendezvous barrier. A config-change or quit
// command may carry one so the issuing thread can wait for this session
// to finish handling it before proceeding.
type Arriver interface{ Arrive() }

// Command is one entry on the capture thread's command queue.
type Command struct {
	Kind    CommandKind
	Target  Target
	Barrier Arriver
}

// FrameSource is the shared queue the Machine thread pushes completed
// frames onto; capture pops with a timeout so it never blocks the thread
// loop indefinitely when the machine stalls or quits.
type FrameSource interface {
	PopTimeout(timeout time.Duration) (Frame, bool)
}

// Session runs the capture thread's step loop: drain commands, and while
// recording and the machine is running, pull one frame per iteration and
// forward it to the active target.
type Session struct {
	cmds     *queue.CommandQueue[Command]
	pacer    *chrono.Pacer
	frames   FrameSource
	running  bool
	recording bool
	target   Target
	quit     bool
}

func NewSession(cmds *queue.CommandQueue[Command], pacer *chrono.Pacer, frames FrameSource) *Session {
	return &Session{cmds: cmds, pacer: pacer, frames: frames}
}

// SetMachineRunning reflects the Machine thread's run/pause state, read
// each step to decide whether frames are expected.
func (s *Session) SetMachineRunning(running bool) { s.running = running }

// Step runs one iteration of the capture thread's loop; callers drive this
// from their own goroutine between Pacer waits.
func (s *Session) Step(heartbeatNs int64) {
	for _, cmd := range s.cmds.DrainAll() {
		s.handle(cmd)
	}
	if s.quit {
		return
	}
	if !s.recording || !s.running {
		return
	}
	f, ok := s.frames.PopTimeout(2 * time.Duration(heartbeatNs) * time.Nanosecond)
	if !ok {
		return
	}
	if s.target == nil {
		return
	}
	if err := s.target.WriteFrame(f); err != nil {
		log.Error("capture target write failed", "target", s.target.Name(), "error", err)
	}
}

func (s *Session) handle(cmd Command) {
	switch cmd.Kind {
	case CmdStart:
		if s.target != nil {
			s.target.Close()
		}
		s.target = cmd.Target
		s.recording = true
		log.Info("capture started", "target", s.target.Name())
	case CmdStop:
		s.stopLocked()
	case CmdToggle:
		if s.recording {
			s.stopLocked()
		} else if cmd.Target != nil {
			s.target = cmd.Target
			s.recording = true
			log.Info("capture started", "target", s.target.Name())
		}
	case CmdConfigChanged:
		// Nothing to re-read today beyond target selection, which arrives
		// through CmdStart.
		if cmd.Barrier != nil {
			cmd.Barrier.Arrive()
		}
	case CmdQuit:
		s.stopLocked()
		s.quit = true
		if cmd.Barrier != nil {
			cmd.Barrier.Arrive()
		}
	}
}

// Done reports whether the session has processed a CmdQuit.
func (s *Session) Done() bool { return s.quit }

func (s *Session) stopLocked() {
	if s.target != nil {
		if err := s.target.Close(); err != nil {
			log.Error("capture target close failed", "error", err)
		}
		log.Info("capture stopped", "target", s.target.Name())
	}
	s.target = nil
	s.recording = false
}

func (s *Session) IsRecording() bool { return s.recording }

// CommandQueue exposes the queue this session drains, so an owner outside
// the package can push commands without also owning construction order.
func (s *Session) CommandQueue() *queue.CommandQueue[Command] { return s.cmds }
