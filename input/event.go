// Package input implements the keymap binding engine: host key/button
// events are translated into running macro programs (key press/release
// sequences, typematic repeat, autofire, keycombo remapping) executed
// against the guest.
package input

// HostEvent is the host-library-agnostic shape every backend (SDL2,
// headless test fakes) produces, decoupling the binding engine from any
// specific windowing/input library.
type HostEvent struct {
	Scancode  uint32
	Keycode   uint32
	Modifiers Modifiers
	Pressed   bool
}

// Modifiers is a bitmask of the modifier keys held during a HostEvent.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModGui
)

func (m Modifiers) Has(o Modifiers) bool { return m&o == o }
