package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeymap(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "keymap.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseKeymapSimpleBinding(t *testing.T) {
	path := writeKeymap(t, "A = KEY_A; MODE:DEFAULT\n")
	km, err := ParseKeymapFile(path)
	require.NoError(t, err)

	b, ok := km.Lookup(HostEvent{Scancode: HostScancodeByName["A"], Pressed: true})
	require.True(t, ok)
	assert.Equal(t, Momentary, b.Mode)
	require.Len(t, b.Program, 1)
	assert.Equal(t, GuestKeyByName["KEY_A"], b.Program[0].KeyCode)
}

func TestParseKeymapLatchedAndGroup(t *testing.T) {
	path := writeKeymap(t, "F1 = KEY_F1; MODE:LATCHED; GROUP:speed\n")
	km, err := ParseKeymapFile(path)
	require.NoError(t, err)

	b, ok := km.Lookup(HostEvent{Scancode: HostScancodeByName["F1"]})
	require.True(t, ok)
	assert.Equal(t, Latched, b.Mode)
	assert.Equal(t, "speed", b.Name)
}

func TestParseKeymapModifierCombo(t *testing.T) {
	path := writeKeymap(t, "KMOD_CTRL+Q = FUNC_quit()\n")
	km, err := ParseKeymapFile(path)
	require.NoError(t, err)

	_, ok := km.Lookup(HostEvent{Scancode: HostScancodeByName["Q"], Modifiers: ModCtrl})
	assert.True(t, ok)
}

func TestParseKeymapAutofire(t *testing.T) {
	path := writeKeymap(t, "A = KEY_A+AUTOFIRE(100)\n")
	km, err := ParseKeymapFile(path)
	require.NoError(t, err)

	b, ok := km.Lookup(HostEvent{Scancode: HostScancodeByName["A"]})
	require.True(t, ok)
	assert.True(t, b.Autofire)
	require.Len(t, b.Program, 5)
	assert.Equal(t, PKey, b.Program[0].Kind)
	assert.Equal(t, PSkipTo, b.Program[4].Kind)
}

func TestParseKeymapSkipsMalformedLine(t *testing.T) {
	path := writeKeymap(t, "not a binding line\nA = KEY_A\n")
	km, err := ParseKeymapFile(path)
	require.NoError(t, err)
	_, ok := km.Lookup(HostEvent{Scancode: HostScancodeByName["A"]})
	assert.True(t, ok)
}

func TestParseKeymapWaitAndRelease(t *testing.T) {
	path := writeKeymap(t, "A = KEY_A+WAIT(50)+RELEASE(0)\n")
	km, err := ParseKeymapFile(path)
	require.NoError(t, err)

	b, ok := km.Lookup(HostEvent{Scancode: HostScancodeByName["A"]})
	require.True(t, ok)
	require.Len(t, b.Program, 3)
	assert.Equal(t, PWait, b.Program[1].Kind)
	assert.Equal(t, 50, b.Program[1].DelayMs)
	assert.Equal(t, PRelease, b.Program[2].Kind)
}
