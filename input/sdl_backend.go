//go:build !headless

package input

import "github.com/veandco/go-sdl2/sdl"

// SDLSource pumps SDL2 keyboard events into HostEvents, translating
// SDL's scancode/keycode/modifier triple into the engine's own shape.
type SDLSource struct{}

func NewSDLSource() *SDLSource { return &SDLSource{} }

// Poll drains pending SDL events, invoking onEvent for each keyboard
// transition it recognizes.
func (s *SDLSource) Poll(onEvent func(HostEvent)) {
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *sdl.KeyboardEvent:
			onEvent(HostEvent{
				Scancode:  uint32(e.Keysym.Scancode),
				Keycode:   uint32(e.Keysym.Sym),
				Modifiers: translateMods(sdl.Keymod(e.Keysym.Mod)),
				Pressed:   e.State == sdl.PRESSED,
			})
		}
	}
}

func translateMods(m sdl.Keymod) Modifiers {
	var out Modifiers
	if m&sdl.KMOD_SHIFT != 0 {
		out |= ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= ModAlt
	}
	if m&sdl.KMOD_GUI != 0 {
		out |= ModGui
	}
	return out
}
