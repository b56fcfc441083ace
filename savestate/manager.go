package savestate

import (
	"fmt"
	"path/filepath"

	"github.com/ibmulator-go/ps1core/config"
	"github.com/ibmulator-go/ps1core/logx"
	"github.com/ibmulator-go/ps1core/mixer"
)

var log = logx.For("SAVESTATE")

// ConfigApplier feeds a restored config snapshot back into the owner's
// live config cell (the same path config.Watch's reload callback uses),
// so a loaded record's settings take effect immediately.
type ConfigApplier func(config.Config)

// Manager implements orchestrator.StateHooks: it is installed as
// Config.State and invoked, already on the paused Machine thread, by the
// orchestrator's save/load rendezvous.
type Manager struct {
	baseDir  string
	mix      *mixer.Mixer
	reg      *Registry
	liveCfg  func() config.Config
	applyCfg ConfigApplier
	thumb    ThumbnailSource
	userDesc string
}

// NewManager wires a Manager. liveCfg returns the config in effect right
// now (for the snapshot written into state.ini); applyCfg is called with
// a loaded record's config before replaying state.bin, matching the
// original's read-config-then-restore-state ordering. thumb may be nil.
func NewManager(baseDir string, mix *mixer.Mixer, reg *Registry, liveCfg func() config.Config, applyCfg ConfigApplier, thumb ThumbnailSource) *Manager {
	return &Manager{baseDir: baseDir, mix: mix, reg: reg, liveCfg: liveCfg, applyCfg: applyCfg, thumb: thumb}
}

// SetUserDescription sets the free-text note written into state.txt for
// the next Save call (e.g. from a CLI --description flag).
func (m *Manager) SetUserDescription(s string) { m.userDesc = s }

// Save writes path (a record name, not a full filesystem path: it is
// joined under baseDir) as a complete state record.
func (m *Manager) Save(path string) error {
	name := recordName(path)
	log.Info("saving state", "record", name)
	if err := Save(m.baseDir, name, m.liveCfg(), m.userDesc, m.reg, m.thumb); err != nil {
		return fmt.Errorf("savestate: save %q: %w", name, err)
	}
	return nil
}

// Load runs the staged restore sequence: read the record's config and
// feed it to the live config cell, reset the mixer to constructor
// defaults, then replay state.bin's chunks into every registered
// component in order, verifying each tag as it's consumed.
func (m *Manager) Load(path string) error {
	name := recordName(path)
	log.Info("loading state", "record", name)

	dir := recordDir(m.baseDir, name)
	cfg, err := readStateIni(dir)
	if err != nil {
		return fmt.Errorf("savestate: load %q: %w", name, err)
	}
	if m.applyCfg != nil {
		m.applyCfg(cfg)
	}

	m.mix.Reset()

	if err := readStateBin(dir, m.reg); err != nil {
		return fmt.Errorf("savestate: load %q: %w", name, err)
	}
	return nil
}

// QuickSave overwrites the fixed quicksave record without prompting.
func (m *Manager) QuickSave() error { return m.Save(QuickSaveName) }

// QuickLoad restores the fixed quicksave record.
func (m *Manager) QuickLoad() error { return m.Load(QuickSaveName) }

// recordName accepts either a bare record name or a full path under
// baseDir, so callers (CLI flags, orchestrator StatePath strings) can
// pass either one.
func recordName(path string) string { return filepath.Base(filepath.Clean(path)) }
