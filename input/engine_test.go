package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimers struct {
	pending []func()
}

func (f *fakeTimers) arm(delayMs int, fire func()) func() {
	f.pending = append(f.pending, fire)
	idx := len(f.pending) - 1
	return func() { f.pending[idx] = nil }
}

func (f *fakeTimers) fireAll() {
	pending := f.pending
	f.pending = nil
	for _, fn := range pending {
		if fn != nil {
			fn()
		}
	}
}

func TestMomentaryBindingPressSendsKeyAndReleaseReverses(t *testing.T) {
	km := NewKeymap()
	var events []HostEvent
	_ = events
	var keyLog [][2]interface{}
	output := func(code uint32, pressed bool) { keyLog = append(keyLog, [2]interface{}{code, pressed}) }

	km.BindScancode(10, 0, &Binding{Name: "A", Mode: Momentary, Program: []ProgramEvent{Key(30, true)}})
	timers := &fakeTimers{}
	e := NewEngine(km, timers.arm, output, nil)

	e.HandleHostEvent(HostEvent{Scancode: 10, Pressed: true})
	require.Len(t, keyLog, 1)
	assert.Equal(t, uint32(30), keyLog[0][0])
	assert.Equal(t, true, keyLog[0][1])

	e.HandleHostEvent(HostEvent{Scancode: 10, Pressed: false})
	require.Len(t, keyLog, 2)
	assert.Equal(t, false, keyLog[1][1])
}

func TestLatchedBindingTogglesOnEachPress(t *testing.T) {
	km := NewKeymap()
	var keyLog []bool
	output := func(code uint32, pressed bool) { keyLog = append(keyLog, pressed) }
	b := &Binding{Name: "L", Mode: Latched, Program: []ProgramEvent{Key(40, true)}}
	km.BindScancode(20, 0, b)
	timers := &fakeTimers{}
	e := NewEngine(km, timers.arm, output, nil)

	e.HandleHostEvent(HostEvent{Scancode: 20, Pressed: true})
	require.Len(t, keyLog, 1)
	assert.True(t, keyLog[0])

	e.HandleHostEvent(HostEvent{Scancode: 20, Pressed: true})
	require.Len(t, keyLog, 2)
	assert.False(t, keyLog[1])
}

func TestWaitParksOnTimerAndResumesOnFire(t *testing.T) {
	km := NewKeymap()
	var keyLog []uint32
	output := func(code uint32, pressed bool) {
		if pressed {
			keyLog = append(keyLog, code)
		}
	}
	b := &Binding{Name: "W", Mode: Momentary, Program: []ProgramEvent{
		Key(1, true), Wait(100), Key(2, true),
	}}
	km.BindScancode(30, 0, b)
	timers := &fakeTimers{}
	e := NewEngine(km, timers.arm, output, nil)

	e.HandleHostEvent(HostEvent{Scancode: 30, Pressed: true})
	assert.Equal(t, []uint32{1}, keyLog)

	timers.fireAll()
	assert.Equal(t, []uint32{1, 2}, keyLog)
}

func TestSkipToLoopsProgramExecution(t *testing.T) {
	km := NewKeymap()
	var count int
	output := func(code uint32, pressed bool) {
		if pressed {
			count++
		}
	}
	prog := ExpandAutofire(5, 50)
	b := &Binding{Name: "AF", Mode: Momentary, Program: prog}
	km.BindScancode(40, 0, b)
	timers := &fakeTimers{}
	e := NewEngine(km, timers.arm, output, nil)

	e.HandleHostEvent(HostEvent{Scancode: 40, Pressed: true})
	assert.Equal(t, 1, count)

	timers.fireAll() // Wait -> Release
	timers.fireAll() // Wait -> SkipTo start -> Key again
	assert.Equal(t, 2, count)
}

func TestFuncEventInvokesHandlerWithoutSuspending(t *testing.T) {
	km := NewKeymap()
	var called string
	funcs := func(name string) { called = name }
	b := &Binding{Name: "F", Mode: Momentary, Program: []ProgramEvent{Func("toggle_fullscreen")}}
	km.BindScancode(50, 0, b)
	timers := &fakeTimers{}
	e := NewEngine(km, timers.arm, func(uint32, bool) {}, funcs)

	e.HandleHostEvent(HostEvent{Scancode: 50, Pressed: true})
	assert.Equal(t, "toggle_fullscreen", called)
}

func TestKeymapFallsBackFromScancodeToKeycode(t *testing.T) {
	km := NewKeymap()
	b := &Binding{Name: "KC", Mode: Momentary, Program: []ProgramEvent{Key(99, true)}}
	km.BindKeycode(200, 0, b)

	found, ok := km.Lookup(HostEvent{Scancode: 1, Keycode: 200})
	require.True(t, ok)
	assert.Equal(t, b, found)
}

func TestKeymapModifierMaskedFallback(t *testing.T) {
	km := NewKeymap()
	b := &Binding{Name: "MM", Mode: Momentary}
	km.BindScancode(5, 0, b)

	found, ok := km.Lookup(HostEvent{Scancode: 5, Modifiers: ModShift})
	require.True(t, ok)
	assert.Equal(t, b, found)
}

func TestExpandTypematicProducesRepeatLoop(t *testing.T) {
	prog := ExpandTypematic(7, 500, 33)
	require.Len(t, prog, 4)
	assert.Equal(t, PWait, prog[0].Kind)
	assert.Equal(t, 500, prog[0].DelayMs)
	assert.Equal(t, PKey, prog[1].Kind)
	assert.Equal(t, PSkipTo, prog[3].Kind)
	assert.Equal(t, 1, prog[3].SkipIdx)
}
