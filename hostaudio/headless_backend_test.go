//go:build headless

package hostaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibmulator-go/ps1core/queue"
)

func TestHeadlessDeviceStartsPausedAndToggles(t *testing.T) {
	ring := queue.NewRing(1024)
	d := NewHeadlessDevice(ring)
	assert.True(t, d.IsPaused())

	d.Unpause()
	assert.False(t, d.IsPaused())

	d.Pause()
	assert.True(t, d.IsPaused())
}

func TestHeadlessDeviceDrainRespectsPauseState(t *testing.T) {
	ring := queue.NewRing(1024)
	d := NewHeadlessDevice(ring)
	ring.Write(make([]byte, 100))

	assert.Equal(t, 0, d.Drain(100), "paused device must not consume the ring")

	d.Unpause()
	n := d.Drain(100)
	assert.Equal(t, 100, n)
	assert.Equal(t, 0, ring.GetReadAvail())
}
