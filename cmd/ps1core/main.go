// Command ps1core starts the timing/orchestration substrate: it loads
// configuration, wires up the Machine/Mixer/Capture thread model, and
// optionally restores a persisted state record before running, or
// quick-saves one and exits without running.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ibmulator-go/ps1core/capture"
	"github.com/ibmulator-go/ps1core/chrono"
	"github.com/ibmulator-go/ps1core/config"
	"github.com/ibmulator-go/ps1core/hostaudio"
	"github.com/ibmulator-go/ps1core/logx"
	"github.com/ibmulator-go/ps1core/mixer"
	"github.com/ibmulator-go/ps1core/orchestrator"
	"github.com/ibmulator-go/ps1core/queue"
	"github.com/ibmulator-go/ps1core/savestate"
	"github.com/ibmulator-go/ps1core/scheduler"
	flag "github.com/spf13/pflag"
)

// Exit codes per the CLI contract: 0 success, 1 config/IO error, 2
// unsupported platform capability.
const (
	exitOK                  = 0
	exitConfigOrIOError     = 1
	exitUnsupportedPlatform = 2
)

var log = logx.For("CLI")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ps1core", flag.ContinueOnError)
	configPath := fs.String("config", "config.toml", "path to the configuration file")
	mediaDir := fs.String("media", ".", "directory holding disk/CD-ROM media images")
	stateName := fs.String("state", "", "restore this state record on launch")
	stateDir := fs.String("statedir", "states", "directory persisted state records are stored under")
	quicksave := fs.Bool("quicksave", false, "quick-save to the fixed quicksave record, then exit")
	quickload := fs.Bool("quickload", false, "quick-load the fixed quicksave record, then run")
	runFor := fs.Duration("run-for", 0, "exit automatically after this duration (0 = run until interrupted)")
	audioBackend := fs.String("audio", "headless", "host audio backend: headless, oto, or portaudio")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfigOrIOError
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load configuration", "path", *configPath, "error", err)
		return exitConfigOrIOError
	}
	if _, err := os.Stat(*mediaDir); err != nil {
		log.Error("media directory unavailable", "dir", *mediaDir, "error", err)
		return exitConfigOrIOError
	}
	if err := os.MkdirAll(*stateDir, 0o755); err != nil {
		log.Error("failed to create state directory", "dir", *stateDir, "error", err)
		return exitConfigOrIOError
	}

	liveCfg := cfg
	clk := chrono.New()
	const heartbeatNs = int64(10 * time.Millisecond)

	mix := mixer.New(mixer.OutputSpec{RateHz: liveCfg.Mixer.RateHz, Channels: 2}, heartbeatNs,
		int64(liveCfg.Mixer.PrebufferMs)*1000, 1<<18)
	device, err := newHostDevice(*audioBackend, liveCfg.Mixer.RateHz, mix.Ring())
	if err != nil {
		log.Error("requested audio backend unavailable on this platform", "backend", *audioBackend, "error", err)
		return exitUnsupportedPlatform
	}
	mix.AttachDevice(device)
	mix.SetMasterVolume(liveCfg.Mixer.Volume)

	sched := scheduler.New()

	capCmds := queue.NewCommandQueue[capture.Command](32)
	capPacer := chrono.NewPacer(clk, heartbeatNs)
	capSession := capture.NewSession(capCmds, capPacer, noFrames{})

	reg := savestate.NewRegistry()
	reg.Add(savestate.NewMixerComponent(mix))
	mgr := savestate.NewManager(*stateDir, mix, reg,
		func() config.Config { return liveCfg },
		func(c config.Config) { liveCfg = c },
		nil, // no video chip in this substrate to source a state.png thumbnail from
	)

	orch := orchestrator.New(orchestrator.Config{
		Clock:              clk,
		MachineHeartbeatNs: heartbeatNs,
		MixerHeartbeatNs:   heartbeatNs,
		CaptureHeartbeatNs: heartbeatNs,
		Machine:            orchestrator.NullStepper{},
		Sched:              sched,
		Mixer:              mix,
		Capture:            capSession,
		State:              mgr,
	})

	if *quicksave {
		if err := mgr.QuickSave(); err != nil {
			log.Error("quicksave failed", "error", err)
			return exitConfigOrIOError
		}
		log.Info("quicksave complete", "dir", *stateDir)
		return exitOK
	}

	if *stateName != "" {
		if err := mgr.Load(*stateName); err != nil {
			log.Error("failed to restore state", "record", *stateName, "error", err)
			return exitConfigOrIOError
		}
	}
	if *quickload {
		if err := mgr.QuickLoad(); err != nil {
			log.Error("quickload failed", "error", err)
			return exitConfigOrIOError
		}
	}

	orch.Start()
	if *runFor > 0 {
		time.Sleep(*runFor)
		orch.RequestQuit()
	}
	orch.Wait()
	return exitOK
}

// noFrames is the capture thread's FrameSource when no video chip is
// wired up; PopTimeout always times out.
type noFrames struct{}

func (noFrames) PopTimeout(timeout time.Duration) (capture.Frame, bool) {
	time.Sleep(timeout)
	return capture.Frame{}, false
}

// newHostDevice selects the host audio backend named on the command
// line. oto/portaudio failing to open a device (no sound hardware, no
// display server for the backend's dependencies) is the CLI's one
// platform-capability failure mode, distinct from a config/IO error.
func newHostDevice(name string, rateHz int, ring *queue.Ring) (mixer.HostDevice, error) {
	switch name {
	case "headless":
		return hostaudio.NewHeadlessDevice(ring), nil
	case "oto":
		return hostaudio.NewOtoDevice(rateHz, 2, ring)
	case "portaudio":
		return hostaudio.NewPortAudioDevice(rateHz, 2, 1024, ring)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", name)
	}
}
