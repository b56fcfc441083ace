// channel.go implements a single mixer channel's per-update pipeline:
// generate callback -> input buffer -> nearest-neighbor resample -> DSP
// chain -> output buffer.
package mixer

import (
	"sync"
)

// GenerateFunc is the per-channel callback contract:
// generate(time_span_ns, prebuffering, first_update) -> active.
type GenerateFunc func(timeSpanNs int64, prebuffering bool, firstUpdate bool) bool

// Channel is created when a device is installed and destroyed when the
// device is removed. Its DSP configuration (including volume) is
// hot-reloadable through ApplyConfig, applied atomically between updates;
// the category is fixed at construction.
type Channel struct {
	id       uint64
	name     string
	category Category
	input    Spec
	output   OutputSpec

	generate GenerateFunc

	playerMu sync.Mutex // protects inBuf/outBuf/active/disableDeadline
	inBuf    []float32  // de-interleaved-free float32 mono-or-stereo scratch; see note below
	outBuf   []float32  // resampled+DSP'd output awaiting the mixer's pull

	active           bool
	enabled          bool
	firstUpdateDone  bool
	disableTimeoutNs int64
	disableDeadline  int64

	configMu sync.Mutex // protects dsp config + balance/volume/mute,
	// separate from playerMu so config updates never block audio generation
	dsp     DSPConfig
	mute    bool
	forceMu bool // force_mute

	chain *dspChain
}

// NewChannel constructs a channel with the given input spec. output is the
// mixer's chosen OutputSpec (channels/rate), fixed once at mixer startup.
func NewChannel(id uint64, name string, category Category, input Spec, output OutputSpec) *Channel {
	return &Channel{
		id:               id,
		name:             name,
		category:         category,
		input:            input,
		output:           output,
		dsp:              defaultDSPConfig(),
		disableTimeoutNs: 5_000_000, // 5ms default disable timeout
		chain:            newDSPChain(output.RateHz),
	}
}

func (c *Channel) ID() uint64      { return c.id }
func (c *Channel) Name() string    { return c.name }
func (c *Channel) Category() Category { return c.category }

// Config returns the channel's current DSP configuration plus mute/force-
// mute flags, for the savestate writer.
func (c *Channel) Config() (DSPConfig, bool, bool) {
	c.configMu.Lock()
	defer c.configMu.Unlock()
	return c.dsp, c.mute, c.forceMu
}

// RestoreConfig re-applies a previously captured DSP configuration and
// mute flags, for the savestate reader.
func (c *Channel) RestoreConfig(cfg DSPConfig, mute, forceMute bool) {
	c.configMu.Lock()
	c.dsp = cfg
	c.mute = mute
	c.forceMu = forceMute
	c.configMu.Unlock()
}

// SetGenerator installs (or replaces) the device callback.
func (c *Channel) SetGenerator(fn GenerateFunc) {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	c.generate = fn
}

// pushInput appends newly produced frames (interleaved per
// c.input.Channels) to the channel's input buffer; called by the device's
// generate callback via AppendSamples during Update.
func (c *Channel) pushInput(samples []float32) {
	c.inBuf = append(c.inBuf, samples...)
}

// AppendSamples is the handle passed to device code so it can push PCM
// frames while Update is invoking its GenerateFunc.
func (c *Channel) AppendSamples(samples []float32) {
	c.pushInput(samples)
}

// ApplyConfig atomically replaces the DSP chain configuration; applied
// between updates so a half-changed config is never observed mid-buffer.
func (c *Channel) ApplyConfig(cfg DSPConfig) {
	c.configMu.Lock()
	defer c.configMu.Unlock()
	c.dsp = cfg
}

func (c *Channel) SetMute(m bool) {
	c.configMu.Lock()
	defer c.configMu.Unlock()
	c.mute = m
}

func (c *Channel) SetForceMute(m bool) {
	c.configMu.Lock()
	defer c.configMu.Unlock()
	c.forceMu = m
}

func (c *Channel) SetDisableTimeoutNs(ns int64) {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	c.disableTimeoutNs = ns
}

// Flush drops pending frames under the channel's player mutex.
func (c *Channel) Flush() {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	c.inBuf = c.inBuf[:0]
	c.outBuf = c.outBuf[:0]
}

// Reset restores the channel to its constructor defaults: DSP chain,
// mute/force-mute, and buffers/active state. Used by the savestate
// restore sequence's reset-machine step, before per-component state is
// fed back in.
func (c *Channel) Reset() {
	c.playerMu.Lock()
	c.inBuf = c.inBuf[:0]
	c.outBuf = c.outBuf[:0]
	c.active = false
	c.enabled = false
	c.firstUpdateDone = false
	c.disableDeadline = 0
	c.playerMu.Unlock()

	c.configMu.Lock()
	c.dsp = defaultDSPConfig()
	c.mute = false
	c.forceMu = false
	c.configMu.Unlock()

	c.chain = newDSPChain(c.output.RateHz)
}

// updateResult mirrors the {active, enabled} pair the mixer reads back
// after Update.
type updateResult struct {
	active  bool
	enabled bool
}

// Update invokes the device callback, resamples input->output, runs the
// DSP chain, and appends to the output buffer. nowNs is the scheduler's
// current virtual time, used to evaluate the disable-timeout deadline.
func (c *Channel) Update(nowNs, timeSpanNs int64, prebuffering bool) updateResult {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()

	gen := c.generate
	wasActive := c.active

	if gen != nil {
		producing := gen(timeSpanNs, prebuffering, !c.firstUpdateDone)
		c.firstUpdateDone = true
		if producing {
			c.active = true
			c.disableDeadline = nowNs + c.disableTimeoutNs
		} else if c.active && nowNs >= c.disableDeadline {
			c.active = false
			c.inBuf = c.inBuf[:0]
			c.outBuf = c.outBuf[:0]
		}
	}

	if c.active && len(c.inBuf) > 0 {
		resampled := c.resample()
		c.inBuf = c.inBuf[:0]
		c.applyDSPInPlace(resampled)
		c.outBuf = append(c.outBuf, resampled...)
	}

	c.configMu.Lock()
	enabled := !c.mute && !c.forceMu
	c.configMu.Unlock()

	_ = wasActive
	return updateResult{active: c.active, enabled: enabled}
}

// resample converts c.inBuf (input.Channels @ input.RateHz) into the
// mixer's stereo output spec using nearest-neighbor point sampling at the
// integer-sample level, recomputing the rate ratio each call.
// Caller holds playerMu.
func (c *Channel) resample() []float32 {
	inCh := c.input.Channels
	if inCh == 0 {
		inCh = 1
	}
	outCh := c.output.Channels
	if outCh == 0 {
		outCh = 2
	}
	inFrames := len(c.inBuf) / inCh
	if inFrames == 0 {
		return nil
	}

	ratio := float64(c.input.RateHz) / float64(c.output.RateHz)
	if ratio <= 0 {
		ratio = 1
	}
	outFrames := int(float64(inFrames) / ratio)
	if outFrames == 0 {
		outFrames = 1
	}

	out := make([]float32, outFrames*outCh)
	for of := 0; of < outFrames; of++ {
		srcFrame := int(float64(of) * ratio)
		if srcFrame >= inFrames {
			srcFrame = inFrames - 1
		}
		for oc := 0; oc < outCh; oc++ {
			ic := oc
			if ic >= inCh {
				ic = inCh - 1
			}
			out[of*outCh+oc] = c.inBuf[srcFrame*inCh+ic]
		}
	}
	return out
}

// applyDSPInPlace runs the fixed DSP chain over a stereo-interleaved
// buffer. Mono-input channels are treated as dual-mono by resample above,
// so every frame here is guaranteed stereo. Caller holds playerMu.
func (c *Channel) applyDSPInPlace(buf []float32) {
	c.configMu.Lock()
	cfg := c.dsp
	muted := c.mute || c.forceMu
	c.configMu.Unlock()

	outCh := c.output.Channels
	if outCh != 2 {
		// Non-stereo output specs skip the stereo-only DSP stages
		// (crossfeed/balance); volume alone still applies.
		for i := range buf {
			buf[i] *= float32(cfg.Volume.Master)
		}
		if muted {
			for i := range buf {
				buf[i] = 0
			}
		}
		return
	}

	rateHz := float64(c.output.RateHz)
	for i := 0; i+1 < len(buf); i += 2 {
		l, r := c.chain.apply(buf[i], buf[i+1], cfg, rateHz)
		buf[i], buf[i+1] = l, r
	}
	if muted {
		for i := range buf {
			buf[i] = 0
		}
	}
}

// PullOutput drains up to maxFrames*channels output samples for the mixer
// to add into a category accumulator. Returns fewer if less is buffered.
func (c *Channel) PullOutput(maxFrames int) []float32 {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	outCh := c.output.Channels
	if outCh == 0 {
		outCh = 2
	}
	want := maxFrames * outCh
	if want > len(c.outBuf) {
		want = len(c.outBuf)
	}
	out := make([]float32, want)
	copy(out, c.outBuf[:want])
	c.outBuf = c.outBuf[want:]
	return out
}

func (c *Channel) IsActive() bool {
	c.playerMu.Lock()
	defer c.playerMu.Unlock()
	return c.active
}
