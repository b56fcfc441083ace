// dsp.go implements the fixed-order DSP chain (filter -> chorus -> reverb
// -> crossfeed -> balance -> volume) applied to a channel's resampled
// output before it is appended to the channel's output buffer.
//
// The reverb stage is a Schroeder reverberator: four parallel comb filters
// (delay lengths given at 44.1kHz and scaled to the output rate) feeding
// two series allpass stages, run per-channel
// instead of once globally so each channel can carry its own preset.
package mixer

import "math"

// FilterMode selects the state-variable filter's response.
type FilterMode int

const (
	FilterOff FilterMode = iota
	FilterLowPass
	FilterHighPass
	FilterBandPass
)

type FilterParams struct {
	Enabled    bool
	Mode       FilterMode
	CutoffHz   float64
	Resonance  float64 // 0..1
}

// stateVariableFilter is a one-pole/two-pole SVF per stereo channel, kept
// as plain per-instance state rather than register-mapped globals.
type stateVariableFilter struct {
	low, band float64
}

func (f *stateVariableFilter) process(in float64, cutoff, resonance float64, mode FilterMode, rateHz float64) float64 {
	if cutoff <= 0 {
		cutoff = 1
	}
	fc := 2 * math.Sin(math.Pi*math.Min(cutoff/rateHz, 0.49))
	q := 1.0 - clamp01(resonance)*0.99

	f.low += fc * f.band
	high := in - f.low - q*f.band
	f.band += fc * high

	switch mode {
	case FilterLowPass:
		return f.low
	case FilterHighPass:
		return high
	case FilterBandPass:
		return f.band
	default:
		return in
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ChorusParams configures a short modulated delay line.
type ChorusParams struct {
	Enabled   bool
	DepthMs   float64
	RateHz    float64
	MixWet    float64
}

type chorusState struct {
	buf      []float32
	pos      int
	lfoPhase float64
}

func newChorusState(maxDelaySamples int) *chorusState {
	return &chorusState{buf: make([]float32, maxDelaySamples)}
}

func (c *chorusState) process(in float32, p ChorusParams, rateHz float64) float32 {
	if len(c.buf) == 0 {
		return in
	}
	c.buf[c.pos] = in
	n := len(c.buf)

	c.lfoPhase += 2 * math.Pi * p.RateHz / rateHz
	if c.lfoPhase > 2*math.Pi {
		c.lfoPhase -= 2 * math.Pi
	}
	depthSamples := p.DepthMs / 1000 * rateHz
	delay := depthSamples/2*(1+math.Sin(c.lfoPhase)) + 1

	readPos := float64(c.pos) - delay
	for readPos < 0 {
		readPos += float64(n)
	}
	i0 := int(readPos) % n
	i1 := (i0 + 1) % n
	frac := readPos - math.Floor(readPos)
	wet := float32((1-frac)*float64(c.buf[i0]) + frac*float64(c.buf[i1]))

	c.pos = (c.pos + 1) % n
	return in*(1-float32(p.MixWet)) + wet*float32(p.MixWet)
}

// ReverbPreset selects a canned reverb character; None disables the stage
// unless Enabled explicitly overrides it.
type ReverbPreset int

const (
	ReverbNone ReverbPreset = iota
	ReverbSmall
	ReverbMedium
	ReverbLarge
)

type ReverbParams struct {
	Preset    ReverbPreset
	Enabled   *bool // nil = derive from Preset; non-nil = explicit override
	MixWet    float64
}

func (p ReverbParams) isEnabled() bool {
	if p.Enabled != nil {
		return *p.Enabled
	}
	return p.Preset != ReverbNone
}

const numCombFilters = 4
const allpassCoef = 0.5
const reverbAttenuation = 0.3

var combDelayLengths = [numCombFilters]int{1687, 1601, 2053, 2251}
var combDecayByPreset = map[ReverbPreset][numCombFilters]float64{
	ReverbSmall:  {0.70, 0.68, 0.66, 0.64},
	ReverbMedium: {0.84, 0.82, 0.80, 0.78},
	ReverbLarge:  {0.97, 0.95, 0.93, 0.91},
}
var allpassDelayLengths = [2]int{389, 307}
var preDelaySamplesAt44k = 8 * 44100 / 1000 // 8ms pre-delay at 44.1kHz reference

type combFilter struct {
	buf   []float32
	pos   int
	decay float64
}

type reverbState struct {
	preDelay    []float32
	preDelayPos int
	combs       [numCombFilters]combFilter
	allpass     [2][]float32
	allpassPos  [2]int
}

func newReverbState(rateHz int) *reverbState {
	r := &reverbState{}
	preDelayLen := 8 * rateHz / 1000
	if preDelayLen < 1 {
		preDelayLen = 1
	}
	r.preDelay = make([]float32, preDelayLen)
	for i := range r.combs {
		n := scaleDelay(combDelayLengths[i], rateHz)
		r.combs[i].buf = make([]float32, n)
	}
	for i := range r.allpass {
		n := scaleDelay(allpassDelayLengths[i], rateHz)
		r.allpass[i] = make([]float32, n)
	}
	return r
}

func scaleDelay(samplesAt44k, rateHz int) int {
	n := samplesAt44k * rateHz / 44100
	if n < 1 {
		n = 1
	}
	return n
}

func (r *reverbState) process(input float32, preset ReverbPreset) float32 {
	decay, ok := combDecayByPreset[preset]
	if !ok {
		decay = combDecayByPreset[ReverbMedium]
	}

	delayed := r.preDelay[r.preDelayPos]
	r.preDelay[r.preDelayPos] = input
	r.preDelayPos = (r.preDelayPos + 1) % len(r.preDelay)

	var out float32
	for i := range r.combs {
		c := &r.combs[i]
		n := len(c.buf)
		cDelayed := c.buf[c.pos]
		c.buf[c.pos] = delayed + cDelayed*float32(decay[i])
		out += cDelayed
		c.pos = (c.pos + 1) % n
	}

	for i := range r.allpass {
		buf := r.allpass[i]
		pos := r.allpassPos[i]
		aDelayed := buf[pos]
		buf[pos] = out + aDelayed*allpassCoef
		out = aDelayed - out
		r.allpassPos[i] = (pos + 1) % len(buf)
	}

	return out * reverbAttenuation
}

// CrossfeedParams controls a cheap stereo-narrowing blend (each channel
// mixes in an undelayed fraction of its opposite).
type CrossfeedParams struct {
	Enabled bool
	Amount  float64 // 0..1, fraction of the opposite channel blended in
}

func applyCrossfeed(l, r float32, p CrossfeedParams) (float32, float32) {
	if !p.Enabled || p.Amount <= 0 {
		return l, r
	}
	amt := float32(clamp01(p.Amount))
	nl := l*(1-amt) + r*amt
	nr := r*(1-amt) + l*amt
	return nl, nr
}

func applyBalance(l, r float32, balance float64) (float32, float32) {
	// balance in [-1,1]: -1 full left, +1 full right, 0 centered.
	b := clampSigned(balance)
	if b < 0 {
		return l, r * float32(1+b)
	} else if b > 0 {
		return l * float32(1-b), r
	}
	return l, r
}

func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func applyVolume(l, r float32, v Volume) (float32, float32) {
	return l * float32(v.Left*v.Master), r * float32(v.Right*v.Master)
}

// dspChain holds the per-channel DSP state (filters/chorus/reverb are
// stateful across calls; crossfeed/balance/volume are stateless).
type dspChain struct {
	filterL, filterR stateVariableFilter
	chorusL, chorusR *chorusState
	reverbL, reverbR *reverbState
}

func newDSPChain(rateHz int) *dspChain {
	maxChorusDelaySamples := int(30.0/1000*float64(rateHz)) + 2
	return &dspChain{
		chorusL: newChorusState(maxChorusDelaySamples),
		chorusR: newChorusState(maxChorusDelaySamples),
		reverbL: newReverbState(rateHz),
		reverbR: newReverbState(rateHz),
	}
}

// DSPConfig is the category-tagged parameter set applied atomically between
// updates.
type DSPConfig struct {
	Filter    FilterParams
	Chorus    ChorusParams
	Reverb    ReverbParams
	Crossfeed CrossfeedParams
	Balance   float64
	Volume    Volume
}

func defaultDSPConfig() DSPConfig {
	return DSPConfig{Volume: UnityVolume()}
}

// apply runs one stereo frame through the fixed DSP order: filter -> chorus
// -> reverb -> crossfeed -> balance -> volume.
func (d *dspChain) apply(l, r float32, cfg DSPConfig, rateHz float64) (float32, float32) {
	if cfg.Filter.Enabled {
		l = float32(d.filterL.process(float64(l), cfg.Filter.CutoffHz, cfg.Filter.Resonance, cfg.Filter.Mode, rateHz))
		r = float32(d.filterR.process(float64(r), cfg.Filter.CutoffHz, cfg.Filter.Resonance, cfg.Filter.Mode, rateHz))
	}
	if cfg.Chorus.Enabled {
		l = d.chorusL.process(l, cfg.Chorus, rateHz)
		r = d.chorusR.process(r, cfg.Chorus, rateHz)
	}
	if cfg.Reverb.isEnabled() {
		wetL := d.reverbL.process(l, cfg.Reverb.Preset)
		wetR := d.reverbR.process(r, cfg.Reverb.Preset)
		mix := float32(clamp01(cfg.Reverb.MixWet))
		l = l*(1-mix) + wetL*mix
		r = r*(1-mix) + wetR*mix
	}
	l, r = applyCrossfeed(l, r, cfg.Crossfeed)
	l, r = applyBalance(l, r, cfg.Balance)
	l, r = applyVolume(l, r, cfg.Volume)
	return l, r
}
