//go:build !headless

// Package hostaudio provides the concrete mixer.HostDevice implementations:
// an oto-backed default, a portaudio-backed alternative, and a headless
// no-op for tests and CI.
package hostaudio

import (
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/ibmulator-go/ps1core/logx"
	"github.com/ibmulator-go/ps1core/queue"
)

var log = logx.For("HOSTAUDIO")

// OtoDevice drains the mixer's ring directly from oto's pull callback, so
// the hot path never touches a mutex held by the mixer goroutine.
type OtoDevice struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *queue.Ring

	mu      sync.Mutex
	paused  bool
	started bool
}

// NewOtoDevice opens an oto context at the given rate/channels and wires
// its Read callback to drain samples from ring.
func NewOtoDevice(sampleRate, channels int, ring *queue.Ring) (*OtoDevice, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	d := &OtoDevice{ctx: ctx, ring: ring, paused: true}
	d.player = ctx.NewPlayer(d)
	return d, nil
}

// Read implements io.Reader for oto.Player: it pulls bytes from the ring,
// zero-filling any shortfall so underrun produces silence instead of
// stutter or a short read error.
func (d *OtoDevice) Read(p []byte) (int, error) {
	n := d.ring.Read(p)
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (d *OtoDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		d.player.Play()
		d.started = true
	}
	return nil
}

func (d *OtoDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.player != nil {
		d.player.Close()
		d.started = false
	}
}

func (d *OtoDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		d.player.Pause()
	}
	d.paused = true
}

func (d *OtoDevice) Unpause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		d.player.Play()
	}
	d.paused = false
}

func (d *OtoDevice) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

// WriteInt16 is a no-op for OtoDevice: audio flows from the ring via Read,
// not by pushing samples in.
func (d *OtoDevice) WriteInt16([]int16) {}
