//go:build !headless

package hostaudio

import (
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ibmulator-go/ps1core/queue"
)

// PortAudioDevice is an alternative backend to OtoDevice, useful on hosts
// where oto's platform driver is unavailable. It pulls int16 frames from
// the mixer ring inside PortAudio's own callback.
type PortAudioDevice struct {
	stream *portaudio.Stream
	ring   *queue.Ring

	mu      sync.Mutex
	paused  bool
	started bool
}

// NewPortAudioDevice opens the default output stream at the given
// rate/channels, framesPerBuffer frames per callback.
func NewPortAudioDevice(sampleRate, channels, framesPerBuffer int, ring *queue.Ring) (*PortAudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	d := &PortAudioDevice{ring: ring, paused: true}

	stream, err := portaudio.OpenDefaultStream(
		0,
		channels,
		float64(sampleRate),
		framesPerBuffer,
		d.callback,
	)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	d.stream = stream
	return d, nil
}

// callback is invoked by PortAudio's driver thread whenever it needs more
// frames; out is interleaved int16 samples.
func (d *PortAudioDevice) callback(out []int16) {
	d.mu.Lock()
	paused := d.paused
	d.mu.Unlock()

	if paused {
		for i := range out {
			out[i] = 0
		}
		return
	}

	buf := make([]byte, len(out)*2)
	n := d.ring.Read(buf)
	for i := range out {
		byteOff := i * 2
		if byteOff+1 < n {
			out[i] = int16(uint16(buf[byteOff]) | uint16(buf[byteOff+1])<<8)
		} else {
			out[i] = 0
		}
	}
}

func (d *PortAudioDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	if err := d.stream.Start(); err != nil {
		return err
	}
	d.started = true
	return nil
}

func (d *PortAudioDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream != nil {
		d.stream.Close()
	}
	portaudio.Terminate()
	d.started = false
}

func (d *PortAudioDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
}

func (d *PortAudioDevice) Unpause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
}

func (d *PortAudioDevice) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

func (d *PortAudioDevice) WriteInt16([]int16) {}
