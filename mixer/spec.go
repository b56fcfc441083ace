// Package mixer implements a per-source PCM pipeline with resampling and a
// DSP chain, mixed through three volume/mute categories into a fixed-rate
// host audio device ring.
package mixer

import "sync"

// Category groups channels for independent volume/mute and DSP.
type Category int

const (
	CategoryAudioCard Category = iota
	CategorySoundFX
	CategoryGUI
	categoryCount
)

func (c Category) String() string {
	switch c {
	case CategoryAudioCard:
		return "audio-card"
	case CategorySoundFX:
		return "sound-fx"
	case CategoryGUI:
		return "gui"
	default:
		return "unknown"
	}
}

// SampleFormat enumerates the PCM encodings a channel's input buffer may
// use; the mixer's output format is always F32 internally and converted to
// int16 only at the final master-mix write.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota
	FormatS16
	FormatF32
)

func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatF32:
		return 4
	default:
		return 0
	}
}

// Spec describes a PCM stream's shape: format, channel count and rate.
type Spec struct {
	Format   SampleFormat
	Channels int
	RateHz   int
}

// OutputSpec is always float32; channel count/rate are chosen from the host
// device at mixer startup.
type OutputSpec struct {
	Channels int
	RateHz   int
}

func (o OutputSpec) ToSpec() Spec {
	return Spec{Format: FormatF32, Channels: o.Channels, RateHz: o.RateHz}
}

// Volume holds a per-channel L/R sub-volume plus a master multiplier.
type Volume struct {
	Left   float64 // 0.0-1.0
	Right  float64
	Master float64
}

func UnityVolume() Volume {
	return Volume{Left: 1, Right: 1, Master: 1}
}

// categoryState holds the per-category volume/mute configuration that the
// mixer applies when summing channels into the master mix.
type categoryState struct {
	mu     sync.Mutex
	volume float64
	mute   bool
}

func newCategoryState() *categoryState {
	return &categoryState{volume: 1.0}
}

func (c *categoryState) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
}

func (c *categoryState) SetMute(m bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mute = m
}

func (c *categoryState) Get() (volume float64, mute bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume, c.mute
}
