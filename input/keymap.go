package input

type bindKey struct {
	code uint32
	mods Modifiers
}

// Keymap resolves a HostEvent to a Binding: scancode first, keycode
// fallback, each tried with exact modifiers then with modifiers masked
// off, so a binding registered without modifiers still matches a press
// that happens to carry an incidental modifier.
type Keymap struct {
	byScancode map[bindKey]*Binding
	byKeycode  map[bindKey]*Binding
}

func NewKeymap() *Keymap {
	return &Keymap{
		byScancode: make(map[bindKey]*Binding),
		byKeycode:  make(map[bindKey]*Binding),
	}
}

func (k *Keymap) BindScancode(code uint32, mods Modifiers, b *Binding) {
	k.byScancode[bindKey{code, mods}] = b
}

func (k *Keymap) BindKeycode(code uint32, mods Modifiers, b *Binding) {
	k.byKeycode[bindKey{code, mods}] = b
}

func (k *Keymap) Lookup(ev HostEvent) (*Binding, bool) {
	if b, ok := k.byScancode[bindKey{ev.Scancode, ev.Modifiers}]; ok {
		return b, true
	}
	if b, ok := k.byScancode[bindKey{ev.Scancode, 0}]; ok {
		return b, true
	}
	if b, ok := k.byKeycode[bindKey{ev.Keycode, ev.Modifiers}]; ok {
		return b, true
	}
	if b, ok := k.byKeycode[bindKey{ev.Keycode, 0}]; ok {
		return b, true
	}
	return nil, false
}
