package input

import "github.com/ibmulator-go/ps1core/logx"

var log = logx.For("INPUT")

// TimerFunc schedules fire to run after delayMs, returning a cancel
// function; Wait program events park a running event on this.
type TimerFunc func(delayMs int, fire func()) (cancel func())

// KeyOutput delivers a single guest key press/release to whatever owns
// the emulated keyboard/joystick state.
type KeyOutput func(keyCode uint32, pressed bool)

// FuncHandler runs a FUNC_* program event's host-side action (toggle
// fullscreen, save state, grab mouse, adjust speed, capture audio/video).
type FuncHandler func(name string)

type runningEvent struct {
	id          int
	binding     *Binding
	index       int
	cancelTimer func()
	activeKeys  []uint32
	modifierOnly bool
	linked      bool
}

// Engine owns the set of currently running macro programs, dispatching
// guest key output and FUNC_* callbacks as programs execute.
type Engine struct {
	keymap   *Keymap
	timer    TimerFunc
	output   KeyOutput
	funcs    FuncHandler

	nextID   int
	byHostKey map[uint32]*runningEvent // momentary: keyed by the host scancode/keycode that started it
	latched   map[*Binding]*runningEvent

	modifierEvents map[uint32]*runningEvent // modifier-only bindings currently held, keyed by host key
}

func NewEngine(keymap *Keymap, timer TimerFunc, output KeyOutput, funcs FuncHandler) *Engine {
	return &Engine{
		keymap: keymap, timer: timer, output: output, funcs: funcs,
		byHostKey:      make(map[uint32]*runningEvent),
		latched:        make(map[*Binding]*runningEvent),
		modifierEvents: make(map[uint32]*runningEvent),
	}
}

// HandleHostEvent is the engine's single entry point: every host key/
// button transition is looked up in the keymap and dispatched.
func (e *Engine) HandleHostEvent(ev HostEvent) {
	b, ok := e.keymap.Lookup(ev)
	if !ok {
		return
	}
	if b.Mode == Latched {
		if ev.Pressed {
			e.toggleLatched(b)
		}
		return
	}
	hostKey := ev.Scancode
	if ev.Pressed {
		e.startMomentary(hostKey, b)
	} else {
		e.stopMomentary(hostKey)
	}
}

func (e *Engine) toggleLatched(b *Binding) {
	if re, running := e.latched[b]; running {
		e.releaseAllKeys(re)
		delete(e.latched, b)
		return
	}
	re := e.newRunning(b)
	e.latched[b] = re
	e.run(re)
}

func (e *Engine) startMomentary(hostKey uint32, b *Binding) {
	if _, already := e.byHostKey[hostKey]; already {
		return
	}
	re := e.newRunning(b)
	e.byHostKey[hostKey] = re
	if b.modifierOnly() {
		e.modifierEvents[hostKey] = re
	} else if b.isKeycombo() {
		e.applyKeycombo()
	}
	e.run(re)
}

func (e *Engine) stopMomentary(hostKey uint32) {
	re, ok := e.byHostKey[hostKey]
	if !ok {
		return
	}
	delete(e.byHostKey, hostKey)
	if _, isMod := e.modifierEvents[hostKey]; isMod {
		delete(e.modifierEvents, hostKey)
	}
	e.releaseAllKeys(re)
	if re.binding.isKeycombo() {
		for _, modEv := range e.modifierEvents {
			if !modEv.linked {
				continue
			}
			modEv.linked = false
			for _, k := range modEv.activeKeys {
				if isModifierCode(k) {
					e.output(k, true)
				}
			}
		}
	}
}

func (e *Engine) newRunning(b *Binding) *runningEvent {
	e.nextID++
	return &runningEvent{id: e.nextID, binding: b}
}

// run executes program events from the running event's current index
// until it reaches the end, a Wait, or loops via SkipTo.
func (e *Engine) run(re *runningEvent) {
	prog := re.binding.Program
	for re.index < len(prog) {
		ev := prog[re.index]
		switch ev.Kind {
		case PKey:
			if !re.linked || !isModifierCode(ev.KeyCode) {
				e.output(ev.KeyCode, ev.Pressed)
			}
			if ev.Pressed {
				re.activeKeys = append(re.activeKeys, ev.KeyCode)
			}
			re.index++
		case PWait:
			re.index++
			re.cancelTimer = e.timer(ev.DelayMs, func() {
				re.cancelTimer = nil
				e.run(re)
			})
			return
		case PRelease:
			e.releaseReferenced(re, ev)
			re.index++
		case PSkipTo:
			re.index = ev.SkipIdx
		case PFunc:
			if e.funcs != nil {
				e.funcs(ev.FuncName)
			}
			re.index++
		}
	}
}

func (e *Engine) releaseReferenced(re *runningEvent, ev ProgramEvent) {
	prog := re.binding.Program
	if ev.ReleaseAll {
		for _, k := range re.activeKeys {
			e.output(k, false)
		}
		re.activeKeys = re.activeKeys[:0]
		return
	}
	for _, idx := range ev.ReleaseIdx {
		if idx < 0 || idx >= len(prog) {
			continue
		}
		e.output(prog[idx].KeyCode, false)
	}
}

func (e *Engine) releaseAllKeys(re *runningEvent) {
	if re.cancelTimer != nil {
		re.cancelTimer()
		re.cancelTimer = nil
	}
	for _, k := range re.activeKeys {
		e.output(k, false)
	}
	re.activeKeys = nil
}

// applyKeycombo masks each currently-held modifier-only binding's
// program output and releases its already-sent modifier keys on the
// guest for the duration of the combo, resuming them when the combo's
// owning key is released.
func (e *Engine) applyKeycombo() {
	for _, modEv := range e.modifierEvents {
		if modEv.linked {
			continue
		}
		modEv.linked = true
		for _, k := range modEv.activeKeys {
			if isModifierCode(k) {
				e.output(k, false)
			}
		}
	}
}

func (b *Binding) modifierOnly() bool {
	for _, ev := range b.Program {
		if ev.Kind == PKey && !isModifierCode(ev.KeyCode) {
			return false
		}
	}
	return len(b.Program) > 0
}

// isKeycombo reports whether a binding's program mixes a modifier key
// with a non-modifier key.
func (b *Binding) isKeycombo() bool {
	hasNonMod, hasMod := false, false
	for _, ev := range b.Program {
		if ev.Kind != PKey {
			continue
		}
		if isModifierCode(ev.KeyCode) {
			hasMod = true
		} else {
			hasNonMod = true
		}
	}
	return hasMod && hasNonMod
}

// isModifierCode reports whether a guest keycode is one of the standard
// modifier keys, used to decide keycombo masking.
func isModifierCode(code uint32) bool {
	switch code {
	case KeyLShift, KeyRShift, KeyLCtrl, KeyRCtrl, KeyLAlt, KeyRAlt:
		return true
	default:
		return false
	}
}

// Guest keycode constants for the modifier keys the keycombo logic
// recognizes; the full `KEY_*` name-to-scancode table is GuestKeyByName
// in guestkeys.go.
const (
	KeyLShift uint32 = 0x2A
	KeyRShift uint32 = 0x36
	KeyLCtrl  uint32 = 0x1D
	KeyRCtrl  uint32 = 0x9D
	KeyLAlt   uint32 = 0x38
	KeyRAlt   uint32 = 0xB8
)
