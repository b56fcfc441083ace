// core.go implements the three-category mixer core: per-step channel
// update/pull, category summation, master volume/mute, prebuffering against
// a fixed-rate host audio device ring, and sink fan-out.
package mixer

import (
	"sync"

	"github.com/ibmulator-go/ps1core/logx"
	"github.com/ibmulator-go/ps1core/queue"
)

var log = logx.For("MIXER")

// HostDevice is the fixed-rate sink the mixer paces against: it starts
// paused, is unpaused once the ring has prebuffered enough, and is
// re-paused if the ring underflows below the low-water mark. The audio
// backend (oto/portaudio/headless) implements this.
type HostDevice interface {
	Start() error
	Close()
	Pause()
	Unpause()
	IsPaused() bool
	// WriteInt16 enqueues interleaved stereo int16 samples for playback;
	// backends that pull from the Ring directly (oto) may no-op this and
	// instead read from Mixer.Ring().
	WriteInt16(samples []int16)
}

// Sink receives each category's int16 mix plus the final master mix, tagged
// by name. Capture's WAV sidecar subscribes to the master only by filtering
// on SinkMaster.
type Sink func(tag string, samples []int16)

const SinkMaster = "master"

// Mixer owns every Channel, the category accumulators, the host device
// ring, and the prebuffer state machine.
type Mixer struct {
	output      OutputSpec
	heartbeatNs int64

	prebufferUs int64

	mu       sync.Mutex // protects channels slice + category states
	channels []*Channel
	nextID   uint64
	cats     [categoryCount]*categoryState

	masterVolume float64
	masterMute   bool

	sinkMu sync.Mutex
	sinks  []namedSink

	ring   *queue.Ring
	device HostDevice

	prebuffering bool
	devicePaused bool
}

type namedSink struct {
	tag string
	fn  Sink
}

// New creates a Mixer. ringCapacityBytes should be large enough to hold
// several heartbeats worth of stereo int16 audio at output.RateHz.
func New(output OutputSpec, heartbeatNs int64, prebufferUs int64, ringCapacityBytes int) *Mixer {
	m := &Mixer{
		output:       output,
		heartbeatNs:  heartbeatNs,
		prebufferUs:  clampPrebuffer(prebufferUs, heartbeatNs),
		masterVolume: 1.0,
		ring:         queue.NewRing(ringCapacityBytes),
		devicePaused: true,
	}
	for i := range m.cats {
		m.cats[i] = newCategoryState()
	}
	return m
}

// clampPrebuffer enforces a latency floor: prebuffer is clamped to
// [heartbeat, 10*heartbeat] expressed in microseconds.
func clampPrebuffer(prebufferUs, heartbeatNs int64) int64 {
	heartbeatUs := heartbeatNs / 1000
	if prebufferUs < heartbeatUs {
		return heartbeatUs
	}
	if prebufferUs > 10*heartbeatUs {
		return 10 * heartbeatUs
	}
	return prebufferUs
}

func (m *Mixer) AttachDevice(d HostDevice) {
	m.device = d
}

func (m *Mixer) Ring() *queue.Ring { return m.ring }

// RingOccupancyUs reports the host ring's current buffered duration, for
// status snapshots and diagnostics.
func (m *Mixer) RingOccupancyUs() int64 { return m.ringOccupancyUs() }

// ActiveChannelCount reports how many channels produced audio on the most
// recent Step.
func (m *Mixer) ActiveChannelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, ch := range m.channels {
		if ch.IsActive() {
			n++
		}
	}
	return n
}

// Reset restores every installed channel and the master/category volumes
// to their constructor defaults, and drops the ring's buffered audio.
// Used by the savestate restore sequence's reset-machine step.
func (m *Mixer) Reset() {
	m.mu.Lock()
	channels := append([]*Channel(nil), m.channels...)
	m.masterVolume = 1.0
	m.masterMute = false
	m.mu.Unlock()

	for _, ch := range channels {
		ch.Reset()
	}
	for i := range m.cats {
		m.cats[i] = newCategoryState()
	}
	m.ring.Reset()
	m.prebuffering = false
	m.devicePaused = true
}

// AddChannel installs a new channel, mirroring a device's install.
func (m *Mixer) AddChannel(name string, category Category, input Spec) *Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ch := NewChannel(m.nextID, name, category, input, m.output)
	m.channels = append(m.channels, ch)
	return ch
}

// RemoveChannel destroys a channel, mirroring a device's removal.
func (m *Mixer) RemoveChannel(ch *Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.channels {
		if c == ch {
			m.channels = append(m.channels[:i], m.channels[i+1:]...)
			return
		}
	}
}

func (m *Mixer) SetCategoryVolume(cat Category, v float64) { m.cats[cat].SetVolume(v) }
func (m *Mixer) SetCategoryMute(cat Category, mute bool)    { m.cats[cat].SetMute(mute) }
func (m *Mixer) SetMasterVolume(v float64)                  { m.mu.Lock(); m.masterVolume = v; m.mu.Unlock() }
func (m *Mixer) SetMasterMute(mute bool)                    { m.mu.Lock(); m.masterMute = mute; m.mu.Unlock() }

// MasterVolume/MasterMute/CategoryVolume expose the mixer's current volume
// tree for the savestate writer.
func (m *Mixer) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.masterVolume
}

func (m *Mixer) MasterMute() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.masterMute
}

func (m *Mixer) CategoryVolume(cat Category) (float64, bool) { return m.cats[cat].Get() }

// Channels returns a snapshot of the installed channels, in registration
// order, for the savestate writer/reader to walk deterministically.
func (m *Mixer) Channels() []*Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Channel(nil), m.channels...)
}

// AddSink registers a fan-out sink called under a dedicated mutex separate
// from the channels' mutex.
func (m *Mixer) AddSink(tag string, fn Sink) {
	m.sinkMu.Lock()
	defer m.sinkMu.Unlock()
	m.sinks = append(m.sinks, namedSink{tag: tag, fn: fn})
}

func nsToFrames(ns int64, rateHz int) int {
	return int(ns * int64(rateHz) / 1_000_000_000)
}

func usToBytes(us int64, rateHz, channels, bytesPerFrame int) int64 {
	frames := int64(us) * int64(rateHz) / 1_000_000
	return frames * int64(channels) * int64(bytesPerFrame)
}

// Step runs one mixer-thread iteration: update every channel, mix active
// channels per category into the master, convert to int16, and feed the
// host ring, honoring prebuffering/underrun recovery.
func (m *Mixer) Step(nowNs int64, cyclesFactor float64) {
	heartbeatFrames := nsToFrames(m.heartbeatNs, m.output.RateHz)

	currentRingUs := m.ringOccupancyUs()
	neededForPrebuffer := nsToFrames((m.prebufferUs-currentRingUs)*1000, m.output.RateHz)
	requiredFrames := heartbeatFrames
	if neededForPrebuffer > requiredFrames {
		requiredFrames = neededForPrebuffer
	}
	capFrames := m.ring.Capacity() / (2 * 2) // stereo int16 frame size
	if requiredFrames > capFrames {
		requiredFrames = capFrames
	}
	if requiredFrames < 0 {
		requiredFrames = 0
	}

	m.mu.Lock()
	channels := append([]*Channel(nil), m.channels...)
	m.mu.Unlock()

	var categoryMix [categoryCount][]float32
	anyActive := false
	for _, ch := range channels {
		res := ch.Update(nowNs, m.heartbeatNs, m.prebuffering)
		if !res.active || !res.enabled {
			continue
		}
		frames := requiredFrames
		if ch.category == CategoryAudioCard && cyclesFactor < 1.0 && cyclesFactor > 0 {
			// Emulated clock runs slower than real time: resample this
			// category's contribution to the real-time domain first.
			frames = int(float64(requiredFrames) * cyclesFactor)
			if frames < 1 {
				frames = 1
			}
		}
		samples := ch.PullOutput(frames)
		if len(samples) == 0 {
			continue
		}
		anyActive = true
		cat := ch.category
		if len(categoryMix[cat]) < len(samples) {
			grown := make([]float32, len(samples))
			copy(grown, categoryMix[cat])
			categoryMix[cat] = grown
		}
		for i, s := range samples {
			categoryMix[cat][i] += s
		}
	}

	masterLen := 0
	for i := range categoryMix {
		if len(categoryMix[i]) > masterLen {
			masterLen = len(categoryMix[i])
		}
	}
	master := make([]float32, masterLen)

	m.mu.Lock()
	masterVolume := m.masterVolume
	masterMute := m.masterMute
	m.mu.Unlock()

	for cat := Category(0); cat < categoryCount; cat++ {
		vol, mute := m.cats[cat].Get()
		mix := categoryMix[cat]
		if mute || len(mix) == 0 {
			if len(mix) > 0 {
				m.emitSink(cat.String(), make([]int16, len(mix)))
			}
			continue
		}
		scaled := make([]float32, len(mix))
		for i, s := range mix {
			scaled[i] = s * float32(vol)
			master[i] += scaled[i]
		}
		m.emitSink(cat.String(), toInt16(scaled))
	}

	if masterMute {
		for i := range master {
			master[i] = 0
		}
	} else {
		for i := range master {
			master[i] *= float32(masterVolume)
		}
	}
	masterInt16 := toInt16(master)
	m.emitSink(SinkMaster, masterInt16)

	if len(masterInt16) > 0 {
		bytes := int16SliceToBytes(masterInt16)
		written := m.ring.Write(bytes)
		if written < len(bytes) {
			log.Warning("mixer ring overflow, dropping tail", "dropped", len(bytes)-written)
		}
	}

	m.runPrebufferStateMachine(anyActive)
}

func (m *Mixer) ringOccupancyUs() int64 {
	bytes := m.ring.GetReadAvail()
	bytesPerFrame := 2 * 2 // stereo * int16
	frames := bytes / bytesPerFrame
	return int64(frames) * 1_000_000 / int64(m.output.RateHz)
}

// runPrebufferStateMachine implements the unpause/overflow/underrun
// transitions against the host device ring.
func (m *Mixer) runPrebufferStateMachine(anyActive bool) {
	ringUs := m.ringOccupancyUs()
	heartbeatUs := m.heartbeatNs / 1000

	if m.device == nil {
		return
	}

	if m.devicePaused {
		if ringUs >= m.prebufferUs {
			m.device.Unpause()
			m.devicePaused = false
			m.prebuffering = false
		} else {
			m.prebuffering = true
		}
		return
	}

	// Playing: watch for overflow (drop old data) and underrun (re-pause).
	highWater := m.prebufferUs + 3*heartbeatUs
	lowWater := m.prebufferUs - 3*heartbeatUs
	if lowWater < 0 {
		lowWater = 0
	}

	if ringUs > highWater {
		keepBytes := int(highWater * int64(m.output.RateHz) / 1_000_000 * 4)
		m.ring.ShrinkData(keepBytes)
		log.Warning("mixer ring overflow, shrinking", "ring_us", ringUs, "high_water_us", highWater)
	} else if ringUs < lowWater {
		m.device.Pause()
		m.devicePaused = true
		m.prebuffering = true
		log.Warning("mixer ring underrun, re-pausing for prebuffer", "ring_us", ringUs, "low_water_us", lowWater)
	} else if !anyActive && m.ring.GetReadAvail() == 0 {
		m.device.Pause()
		m.devicePaused = true
	}
}

func (m *Mixer) emitSink(tag string, samples []int16) {
	m.sinkMu.Lock()
	sinks := append([]namedSink(nil), m.sinks...)
	m.sinkMu.Unlock()
	for _, s := range sinks {
		if s.tag == tag || s.tag == "*" {
			s.fn(tag, samples)
		}
	}
}

func toInt16(f []float32) []int16 {
	out := make([]int16, len(f))
	for i, v := range f {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * 32767)
	}
	return out
}

func int16SliceToBytes(s []int16) []byte {
	b := make([]byte, len(s)*2)
	for i, v := range s {
		b[2*i] = byte(v)
		b[2*i+1] = byte(v >> 8)
	}
	return b
}
