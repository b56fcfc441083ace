// Package config decodes the tagged key-value configuration surface:
// `[mixer]`, `[soundfx]`, per-disk sections (`[disk_c]`, ...), and
// `[drives]`. Unrecognized sections and values that don't parse per their
// expected type log a WARNING and fall back to the default, rather than
// failing the whole file; unrecognized keys inside a known section are
// ignored without a warning, and numeric values are not range-checked.
// A file that fails to decode at startup is fatal, but a
// single bad value found while re-reading config mid-run must not take
// down a running machine.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ibmulator-go/ps1core/logx"
)

var log = logx.For("CONFIG")

// MixerConfig is the `[mixer]` section.
type MixerConfig struct {
	RateHz      int
	Samples     int
	PrebufferMs int
	Volume      float64
	Profile     string
}

func defaultMixer() MixerConfig {
	return MixerConfig{RateHz: 48000, Samples: 1024, PrebufferMs: 50, Volume: 1.0, Profile: "default"}
}

// SoundFXConfig is the `[soundfx]` section. SourceVolume holds the
// per-source sub-table (`[soundfx.volume_by_source]` per-channel overrides).
type SoundFXConfig struct {
	Enabled      bool
	Volume       float64
	SourceVolume map[string]float64
	Reverb       bool
}

func defaultSoundFX() SoundFXConfig {
	return SoundFXConfig{Enabled: true, Volume: 1.0, SourceVolume: map[string]float64{}, Reverb: false}
}

// DiskConfig is a `[disk_X]` device section.
type DiskConfig struct {
	Type            string
	Path            string
	Cylinders       int
	Heads           int
	SectorsPerTrack int
	SeekMaxMs       float64
	SeekTrkMs       float64
	RotSpeedRPM     float64
	Interleave      float64
	SpinupMs        float64
}

func defaultDisk() DiskConfig {
	return DiskConfig{Type: "35", SeekMaxMs: 40, SeekTrkMs: 8, RotSpeedRPM: 3600, Interleave: 4, SpinupMs: 2500}
}

// FDCMode is the supplemented floppy controller compatibility mode.
type FDCMode string

const (
	FDCModePCAT    FDCMode = "pc-at"
	FDCModeModel30 FDCMode = "model30"
)

// DrivesConfig is the `[drives]` section.
type DrivesConfig struct {
	CDROM     string
	CDROMIdle int
	FDDA      string
	FDDB      string
	FDCMode   FDCMode
}

func defaultDrives() DrivesConfig {
	return DrivesConfig{CDROMIdle: 30, FDCMode: FDCModePCAT}
}

// Config is the fully decoded, defaulted, validated configuration tree.
type Config struct {
	Mixer   MixerConfig
	SoundFX SoundFXConfig
	Disks   map[string]DiskConfig
	Drives  DrivesConfig
}

// Default returns the configuration used when no file is present or every
// section is absent.
func Default() Config {
	return Config{
		Mixer:   defaultMixer(),
		SoundFX: defaultSoundFX(),
		Disks:   map[string]DiskConfig{},
		Drives:  defaultDrives(),
	}
}

// Load decodes path into a Config, falling back to defaults section-by-
// section and key-by-key on an unknown section or a value of the wrong
// type, each logged as a WARNING rather than aborting. Values are not
// range-checked. A missing file is not an error: it yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	raw := map[string]map[string]any{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		log.Warning("unknown config key, ignoring", "key", key.String())
	}

	for section, table := range raw {
		switch {
		case section == "mixer":
			cfg.Mixer = decodeMixer(table, cfg.Mixer)
		case section == "soundfx":
			cfg.SoundFX = decodeSoundFX(table, cfg.SoundFX)
		case section == "drives":
			cfg.Drives = decodeDrives(table, cfg.Drives)
		case isDiskSection(section):
			cfg.Disks[section] = decodeDisk(table, defaultDisk())
		default:
			log.Warning("unknown config section, ignoring", "section", section)
		}
	}
	return cfg, nil
}

func isDiskSection(name string) bool {
	return len(name) > 5 && name[:5] == "disk_"
}

func decodeMixer(t map[string]any, def MixerConfig) MixerConfig {
	out := def
	if v, ok := getInt(t, "rate", "mixer.rate"); ok {
		out.RateHz = v
	}
	if v, ok := getInt(t, "samples", "mixer.samples"); ok {
		out.Samples = v
	}
	if v, ok := getInt(t, "prebuffer_ms", "mixer.prebuffer_ms"); ok {
		out.PrebufferMs = v
	}
	if v, ok := getFloat(t, "volume", "mixer.volume"); ok {
		out.Volume = v
	}
	if v, ok := getString(t, "profile", "mixer.profile"); ok {
		out.Profile = v
	}
	return out
}

func decodeSoundFX(t map[string]any, def SoundFXConfig) SoundFXConfig {
	out := def
	if v, ok := getBool(t, "enabled", "soundfx.enabled"); ok {
		out.Enabled = v
	}
	if v, ok := getFloat(t, "volume", "soundfx.volume"); ok {
		out.Volume = v
	}
	if v, ok := getBool(t, "reverb", "soundfx.reverb"); ok {
		out.Reverb = v
	}
	if sub, ok := t["volume_by_source"].(map[string]any); ok {
		vols := map[string]float64{}
		for name, raw := range sub {
			if f, ok := raw.(float64); ok {
				vols[name] = f
			} else if i, ok := raw.(int64); ok {
				vols[name] = float64(i)
			} else {
				log.Warning("bad value for soundfx.volume_by_source entry, ignoring", "source", name)
			}
		}
		out.SourceVolume = vols
	}
	return out
}

func decodeDrives(t map[string]any, def DrivesConfig) DrivesConfig {
	out := def
	if v, ok := getString(t, "cdrom", "drives.cdrom"); ok {
		out.CDROM = v
	}
	if v, ok := getInt(t, "cdrom_idle", "drives.cdrom_idle"); ok {
		out.CDROMIdle = v
	}
	if v, ok := getString(t, "fdd_a", "drives.fdd_a"); ok {
		out.FDDA = v
	}
	if v, ok := getString(t, "fdd_b", "drives.fdd_b"); ok {
		out.FDDB = v
	}
	if v, ok := getString(t, "fdc_mode", "drives.fdc_mode"); ok {
		switch FDCMode(v) {
		case FDCModePCAT, FDCModeModel30:
			out.FDCMode = FDCMode(v)
		default:
			log.Warning("unrecognized fdc_mode, keeping default", "value", v, "default", out.FDCMode)
		}
	}
	return out
}

func decodeDisk(t map[string]any, def DiskConfig) DiskConfig {
	out := def
	if v, ok := getString(t, "type", "disk.type"); ok {
		out.Type = v
	}
	if v, ok := getString(t, "path", "disk.path"); ok {
		out.Path = v
	}
	if v, ok := getInt(t, "cylinders", "disk.cylinders"); ok {
		out.Cylinders = v
	}
	if v, ok := getInt(t, "heads", "disk.heads"); ok {
		out.Heads = v
	}
	if v, ok := getInt(t, "spt", "disk.spt"); ok {
		out.SectorsPerTrack = v
	}
	if v, ok := getFloat(t, "seek_max", "disk.seek_max"); ok {
		out.SeekMaxMs = v
	}
	if v, ok := getFloat(t, "seek_trk", "disk.seek_trk"); ok {
		out.SeekTrkMs = v
	}
	if v, ok := getFloat(t, "rot_speed", "disk.rot_speed"); ok {
		out.RotSpeedRPM = v
	}
	if v, ok := getFloat(t, "interleave", "disk.interleave"); ok {
		out.Interleave = v
	}
	if v, ok := getFloat(t, "spinup_time", "disk.spinup_time"); ok {
		out.SpinupMs = v
	}
	return out
}

func getString(t map[string]any, key, label string) (string, bool) {
	raw, present := t[key]
	if !present {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		log.Warning("bad type for config key, keeping default", "key", label, "expected", "string")
		return "", false
	}
	return s, true
}

func getBool(t map[string]any, key, label string) (bool, bool) {
	raw, present := t[key]
	if !present {
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		log.Warning("bad type for config key, keeping default", "key", label, "expected", "bool")
		return false, false
	}
	return b, true
}

func getInt(t map[string]any, key, label string) (int, bool) {
	raw, present := t[key]
	if !present {
		return 0, false
	}
	switch v := raw.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		log.Warning("bad type for config key, keeping default", "key", label, "expected", "int")
		return 0, false
	}
}

func getFloat(t map[string]any, key, label string) (float64, bool) {
	raw, present := t[key]
	if !present {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Warning("bad type for config key, keeping default", "key", label, "expected", "float")
		return 0, false
	}
}
