package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMixerSection(t *testing.T) {
	path := writeConfig(t, `
[mixer]
rate = 44100
samples = 2048
prebuffer_ms = 80
volume = 0.8
profile = "fast"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, cfg.Mixer.RateHz)
	assert.Equal(t, 2048, cfg.Mixer.Samples)
	assert.Equal(t, 80, cfg.Mixer.PrebufferMs)
	assert.Equal(t, 0.8, cfg.Mixer.Volume)
	assert.Equal(t, "fast", cfg.Mixer.Profile)
}

func TestLoadBadTypeFallsBackToDefault(t *testing.T) {
	path := writeConfig(t, `
[mixer]
rate = "not-a-number"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultMixer().RateHz, cfg.Mixer.RateHz)
}

func TestLoadDriveSectionFDCMode(t *testing.T) {
	path := writeConfig(t, `
[drives]
fdc_mode = "model30"
cdrom = "/media/cd0"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FDCModeModel30, cfg.Drives.FDCMode)
	assert.Equal(t, "/media/cd0", cfg.Drives.CDROM)
}

func TestLoadBadFDCModeKeepsDefault(t *testing.T) {
	path := writeConfig(t, `
[drives]
fdc_mode = "bogus"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FDCModePCAT, cfg.Drives.FDCMode)
}

func TestLoadDiskSection(t *testing.T) {
	path := writeConfig(t, `
[disk_c]
type = "35"
cylinders = 921
heads = 5
spt = 17
seek_max = 40
seek_trk = 8
rot_speed = 3600
interleave = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	d, ok := cfg.Disks["disk_c"]
	require.True(t, ok)
	assert.Equal(t, 921, d.Cylinders)
	assert.Equal(t, 5, d.Heads)
	assert.Equal(t, 17, d.SectorsPerTrack)
	assert.Equal(t, 40.0, d.SeekMaxMs)
}

func TestLoadSoundFXSection(t *testing.T) {
	path := writeConfig(t, `
[soundfx]
enabled = true
volume = 0.5
reverb = true

[soundfx.volume_by_source]
pc_speaker = 0.3
fm = 0.9
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.SoundFX.Enabled)
	assert.Equal(t, 0.5, cfg.SoundFX.Volume)
	assert.True(t, cfg.SoundFX.Reverb)
	assert.Equal(t, 0.3, cfg.SoundFX.SourceVolume["pc_speaker"])
	assert.Equal(t, 0.9, cfg.SoundFX.SourceVolume["fm"])
}
