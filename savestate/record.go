package savestate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/ibmulator-go/ps1core/capture"
	"github.com/ibmulator-go/ps1core/config"
	"github.com/lestrrat-go/strftime"
)

// FormatVersion tags state.txt so a future incompatible change to the
// chunk layout can be detected before LoadState runs against it.
const FormatVersion = "1"

// QuickSaveName is the fixed record name used by the quick-save/quick-load
// convenience path: it always overwrites without prompting.
const QuickSaveName = "quicksave"

const timestampFormat = "%Y-%m-%d %H:%M:%S"

// ThumbnailSource supplies the frame captured into state.png. It may be
// nil; a record saved without one simply has no state.png.
type ThumbnailSource func() (capture.Frame, bool)

const thumbnailWidth = 160

// recordDir returns the directory a named record lives in under base.
func recordDir(base, name string) string { return filepath.Join(base, name) }

// Save writes a complete record (state.bin, state.ini, state.txt, and,
// when thumb is non-nil, state.png) into base/name, creating the
// directory if needed and overwriting any existing record of that name.
func Save(base, name string, cfg config.Config, userDesc string, reg *Registry, thumb ThumbnailSource) error {
	dir := recordDir(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("savestate: create record dir %s: %w", dir, err)
	}

	if err := writeStateBin(dir, reg); err != nil {
		return err
	}
	if err := writeStateIni(dir, cfg); err != nil {
		return err
	}
	if err := writeStateTxt(dir, userDesc, cfg); err != nil {
		return err
	}
	if thumb != nil {
		if f, ok := thumb(); ok {
			if err := writeStatePng(dir, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a record's state.ini (returned so the caller can feed it back
// into live config) and then replays state.bin through reg.
func Load(base, name string, reg *Registry) (config.Config, error) {
	dir := recordDir(base, name)
	cfg, err := readStateIni(dir)
	if err != nil {
		return config.Config{}, err
	}
	if err := readStateBin(dir, reg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func writeStateBin(dir string, reg *Registry) error {
	path := filepath.Join(dir, "state.bin")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("savestate: create %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := reg.WriteAll(NewChunkWriter(bw)); err != nil {
		return err
	}
	return bw.Flush()
}

func readStateBin(dir string, reg *Registry) error {
	path := filepath.Join(dir, "state.bin")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("savestate: open %s: %w", path, err)
	}
	defer f.Close()
	return reg.ReadAll(NewChunkReader(bufio.NewReader(f)))
}

func writeStateIni(dir string, cfg config.Config) error {
	path := filepath.Join(dir, "state.ini")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("savestate: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("savestate: encode %s: %w", path, err)
	}
	return nil
}

func readStateIni(dir string) (config.Config, error) {
	path := filepath.Join(dir, "state.ini")
	cfg := config.Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return config.Config{}, fmt.Errorf("savestate: decode %s: %w", path, err)
	}
	return cfg, nil
}

// writeStateTxt mirrors the original's three-line info file: format
// version, a user-supplied description, and a generated description of
// the config snapshot this record was taken against.
func writeStateTxt(dir, userDesc string, cfg config.Config) error {
	path := filepath.Join(dir, "state.txt")
	ts, err := strftime.Format(timestampFormat, time.Now())
	if err != nil {
		ts = ""
	}
	configDesc := fmt.Sprintf("mixer.rate=%d profile=%s id=%s taken=%s",
		cfg.Mixer.RateHz, cfg.Mixer.Profile, uuid.NewString(), ts)
	body := fmt.Sprintf("v%s\n%s\n%s\n", FormatVersion, userDesc, configDesc)
	return os.WriteFile(path, []byte(body), 0o644)
}

func writeStatePng(dir string, f capture.Frame) error {
	path := filepath.Join(dir, "state.png")
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("savestate: create %s: %w", path, err)
	}
	defer out.Close()
	return capture.WriteScreenshot(out, f, thumbnailWidth)
}
