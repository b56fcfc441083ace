package savestate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ibmulator-go/ps1core/config"
	"github.com/ibmulator-go/ps1core/mixer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBinBytes(base, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(base, name, "state.bin"))
}

func newTestMixer() *mixer.Mixer {
	return mixer.New(mixer.OutputSpec{Channels: 2, RateHz: 48000}, 10_000_000, 50_000, 1<<16)
}

func TestSaveLoadRoundTripPreservesMixerState(t *testing.T) {
	dir := t.TempDir()
	mix := newTestMixer()
	ch := mix.AddChannel("pcspeaker", mixer.CategorySoundFX, mixer.Spec{Channels: 1, RateHz: 8000})
	ch.ApplyConfig(mixer.DSPConfig{Balance: 0.25})
	ch.SetMute(true)
	mix.SetMasterVolume(0.5)
	mix.SetCategoryVolume(mixer.CategorySoundFX, 0.75)

	reg := NewRegistry()
	reg.Add(NewMixerComponent(mix))

	cfg := config.Default()
	cfg.Mixer.Profile = "quiet"
	require.NoError(t, Save(dir, "slot1", cfg, "before boss fight", reg, nil))

	mix.Reset()
	assert.Equal(t, 1.0, mix.MasterVolume())

	gotCfg, err := Load(dir, "slot1", reg)
	require.NoError(t, err)
	assert.Equal(t, "quiet", gotCfg.Mixer.Profile)
	assert.Equal(t, 0.5, mix.MasterVolume())

	vol, _ := mix.CategoryVolume(mixer.CategorySoundFX)
	assert.Equal(t, 0.75, vol)

	dsp, mute, _ := ch.Config()
	assert.Equal(t, 0.25, dsp.Balance)
	assert.True(t, mute)
}

func TestSaveLoadRoundTripIsStableAcrossRepeatedSaves(t *testing.T) {
	dir := t.TempDir()
	mix := newTestMixer()
	mix.AddChannel("fm", mixer.CategoryAudioCard, mixer.Spec{Channels: 2, RateHz: 44100})
	reg := NewRegistry()
	reg.Add(NewMixerComponent(mix))
	cfg := config.Default()

	require.NoError(t, Save(dir, "a", cfg, "", reg, nil))
	first, err := readBinBytes(dir, "a")
	require.NoError(t, err)

	require.NoError(t, Save(dir, "b", cfg, "", reg, nil))
	second, err := readBinBytes(dir, "b")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
