package hostaudio

import (
	"sync"

	"github.com/ibmulator-go/ps1core/queue"
)

// HeadlessDevice discards audio; it satisfies mixer.HostDevice for test and
// CI runs where no real audio sink exists, but still drains the ring so a
// headless run's prebuffer/underrun logic exercises real code paths.
type HeadlessDevice struct {
	ring *queue.Ring

	mu     sync.Mutex
	paused bool
}

func NewHeadlessDevice(ring *queue.Ring) *HeadlessDevice {
	return &HeadlessDevice{ring: ring, paused: true}
}

func (d *HeadlessDevice) Start() error { return nil }
func (d *HeadlessDevice) Close()       {}

func (d *HeadlessDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
}

func (d *HeadlessDevice) Unpause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
}

func (d *HeadlessDevice) IsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

func (d *HeadlessDevice) WriteInt16([]int16) {}

// Drain discards up to maxBytes from the ring, standing in for a real
// device's steady consumption so callers can exercise the full pipeline
// without a platform audio driver.
func (d *HeadlessDevice) Drain(maxBytes int) int {
	if d.IsPaused() {
		return 0
	}
	buf := make([]byte, maxBytes)
	return d.ring.Read(buf)
}
