package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stereoOutput(rate int) OutputSpec {
	return OutputSpec{Channels: 2, RateHz: rate}
}

func TestChannelGenerateAndPullRoundTrips(t *testing.T) {
	ch := NewChannel(1, "test", CategorySoundFX, Spec{Format: FormatF32, Channels: 2, RateHz: 48000}, stereoOutput(48000))
	ch.ApplyConfig(defaultDSPConfig())

	calls := 0
	ch.SetGenerator(func(timeSpanNs int64, prebuffering, first bool) bool {
		calls++
		ch.AppendSamples([]float32{0.25, -0.25, 0.5, -0.5})
		return true
	})

	res := ch.Update(0, 10_000_000, false)
	require.True(t, res.active)
	require.True(t, res.enabled)
	assert.Equal(t, 1, calls)

	out := ch.PullOutput(8)
	require.Len(t, out, 4)
	assert.InDelta(t, 0.25, out[0], 1.0/32767)
	assert.InDelta(t, -0.25, out[1], 1.0/32767)
}

func TestChannelDisableTimeoutKeepsActiveUntilDeadline(t *testing.T) {
	ch := NewChannel(1, "test", CategorySoundFX, Spec{Format: FormatF32, Channels: 2, RateHz: 48000}, stereoOutput(48000))
	ch.SetDisableTimeoutNs(1000)

	producing := true
	ch.SetGenerator(func(int64, bool, bool) bool {
		if producing {
			return true
		}
		return false
	})

	res := ch.Update(0, 100, false)
	assert.True(t, res.active)

	producing = false
	// Immediately after stopping production, channel stays active until
	// now >= disable_deadline.
	res = ch.Update(100, 100, false)
	assert.True(t, res.active, "channel must remain active before its disable deadline")

	res = ch.Update(2000, 100, false)
	assert.False(t, res.active, "channel must deactivate after the disable deadline")
}

func TestChannelMuteSilencesOutputButStaysActive(t *testing.T) {
	ch := NewChannel(1, "test", CategorySoundFX, Spec{Format: FormatF32, Channels: 2, RateHz: 48000}, stereoOutput(48000))
	ch.SetMute(true)
	ch.SetGenerator(func(int64, bool, bool) bool {
		ch.AppendSamples([]float32{1, 1})
		return true
	})
	res := ch.Update(0, 1000, false)
	assert.True(t, res.active)
	assert.False(t, res.enabled)
}

func TestChannelFlushDropsPendingFrames(t *testing.T) {
	ch := NewChannel(1, "test", CategorySoundFX, Spec{Format: FormatF32, Channels: 2, RateHz: 48000}, stereoOutput(48000))
	ch.SetGenerator(func(int64, bool, bool) bool {
		ch.AppendSamples([]float32{1, 1, 1, 1})
		return true
	})
	ch.Update(0, 1000, false)
	ch.Flush()
	out := ch.PullOutput(8)
	assert.Empty(t, out)
}

func TestChannelResampleHandlesRateMismatch(t *testing.T) {
	ch := NewChannel(1, "test", CategorySoundFX, Spec{Format: FormatF32, Channels: 1, RateHz: 22050}, stereoOutput(44100))
	ch.SetGenerator(func(int64, bool, bool) bool {
		ch.AppendSamples([]float32{0.1, 0.2, 0.3, 0.4})
		return true
	})
	ch.Update(0, 1000, false)
	out := ch.PullOutput(100)
	// 4 mono frames upsampled 2x to stereo => roughly 8 frames * 2 channels.
	assert.NotEmpty(t, out)
	assert.Equal(t, 0, len(out)%2, "output must be stereo-interleaved")
}
