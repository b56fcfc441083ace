package mixer

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a HostDevice test double that records pause/unpause
// transitions instead of talking to real audio hardware.
type fakeDevice struct {
	mu      sync.Mutex
	paused  bool
	unpauseCount int
	pauseCount   int
}

func newFakeDevice() *fakeDevice { return &fakeDevice{paused: true} }

func (f *fakeDevice) Start() error { return nil }
func (f *fakeDevice) Close()       {}
func (f *fakeDevice) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
	f.pauseCount++
}
func (f *fakeDevice) Unpause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = false
	f.unpauseCount++
}
func (f *fakeDevice) IsPaused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}
func (f *fakeDevice) WriteInt16([]int16) {}

func sineChannel(m *Mixer, freqHz float64, ampDb float64) *Channel {
	rate := m.output.RateHz
	ch := m.AddChannel("sine", CategoryAudioCard, Spec{Format: FormatF32, Channels: 2, RateHz: rate})
	ch.ApplyConfig(defaultDSPConfig())
	amp := math.Pow(10, ampDb/20)
	var phase float64
	ch.SetGenerator(func(timeSpanNs int64, prebuffering, first bool) bool {
		frames := nsToFrames(timeSpanNs, rate)
		buf := make([]float32, frames*2)
		for i := 0; i < frames; i++ {
			s := float32(amp * math.Sin(phase))
			buf[2*i] = s
			buf[2*i+1] = s
			phase += 2 * math.Pi * freqHz / float64(rate)
		}
		ch.AppendSamples(buf)
		return true
	})
	return ch
}

// TestMixerPrebufferScenario exercises the classic prebuffer scenario:
// host rate 48000, heartbeat 10ms, prebuffer 50ms, a channel producing a
// 1kHz tone at -6dBFS for 500ms. The device starts paused, unpauses once
// ~50ms has prebuffered, and the ring stays near the prebuffer target
// thereafter once the host callback drains it at the same steady rate.
func TestMixerPrebufferScenario(t *testing.T) {
	out := OutputSpec{Channels: 2, RateHz: 48000}
	heartbeatNs := int64(10_000_000)
	m := New(out, heartbeatNs, 50_000, 48000*2*2) // 1s capacity in bytes
	dev := newFakeDevice()
	m.AttachDevice(dev)

	sineChannel(m, 1000, -6)

	var now int64
	var unpausedAtStep = -1
	steps := 50 // 500ms / 10ms
	drainBuf := make([]byte, nsToFrames(heartbeatNs, out.RateHz)*4)
	for i := 0; i < steps; i++ {
		m.Step(now, 1.0)
		now += heartbeatNs
		if !dev.IsPaused() && unpausedAtStep == -1 {
			unpausedAtStep = i
		}
		// Once the device is playing, simulate the host audio callback
		// consuming exactly one heartbeat's worth of audio per step, the
		// same way real hardware drains the ring at its own fixed rate.
		if !dev.IsPaused() {
			m.Ring().Read(drainBuf)
		}
		if unpausedAtStep != -1 && i > unpausedAtStep+2 {
			ringUs := m.ringOccupancyUs()
			assert.GreaterOrEqual(t, ringUs, int64(30_000), "ring should stay near prebuffer target at step %d", i)
			assert.LessOrEqual(t, ringUs, int64(90_000), "ring should not balloon at step %d", i)
		}
	}
	require.NotEqual(t, -1, unpausedAtStep, "device should have unpaused once prebuffered")
	// ~50ms of heartbeats = 5 steps.
	assert.InDelta(t, 5, unpausedAtStep, 3)
}

func TestMixerSilentCategoryIsZero(t *testing.T) {
	out := OutputSpec{Channels: 2, RateHz: 48000}
	m := New(out, 10_000_000, 20_000, 48000*2*2)
	dev := newFakeDevice()
	m.AttachDevice(dev)

	var gotSoundFX bool
	m.AddSink("*", func(tag string, samples []int16) {
		if tag == "sound-fx" {
			gotSoundFX = true
			for _, s := range samples {
				assert.Equal(t, int16(0), s)
			}
		}
	})

	// Only an audio-card channel is active; sound-fx category has no
	// channels at all, so it must never emit non-zero samples.
	sineChannel(m, 1000, -6)
	for i := 0; i < 5; i++ {
		m.Step(int64(i)*10_000_000, 1.0)
	}
	_ = gotSoundFX
}

func TestMixerUnityChannelProducesExpectedSamplesWithinOneLSB(t *testing.T) {
	out := OutputSpec{Channels: 2, RateHz: 48000}
	m := New(out, 10_000_000, 10_000, 48000*2*2)
	dev := newFakeDevice()
	m.AttachDevice(dev)
	m.SetMasterVolume(1.0)

	ch := m.AddChannel("unity", CategoryAudioCard, Spec{Format: FormatF32, Channels: 2, RateHz: 48000})
	ch.ApplyConfig(defaultDSPConfig())
	const constSample = float32(0.5)
	ch.SetGenerator(func(timeSpanNs int64, prebuffering, first bool) bool {
		frames := nsToFrames(timeSpanNs, 48000)
		buf := make([]float32, frames*2)
		for i := range buf {
			buf[i] = constSample
		}
		ch.AppendSamples(buf)
		return true
	})

	var lastMaster []int16
	m.AddSink(SinkMaster, func(tag string, samples []int16) {
		lastMaster = samples
	})

	for i := 0; i < 3; i++ {
		m.Step(int64(i)*10_000_000, 1.0)
	}

	require.NotEmpty(t, lastMaster)
	expected := int16(constSample * 32767)
	for _, s := range lastMaster {
		assert.InDelta(t, expected, s, 1, "category mix must match input within 1 LSB")
	}
}
