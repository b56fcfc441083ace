//go:build !headless

package input

import "github.com/veandco/go-sdl2/sdl"

// HostScancodeByName maps a keymap file's `<scancode-name>` INPUT token to
// the host scancode space, here SDL2's.
var HostScancodeByName = map[string]uint32{
	"A": uint32(sdl.SCANCODE_A), "B": uint32(sdl.SCANCODE_B), "C": uint32(sdl.SCANCODE_C),
	"D": uint32(sdl.SCANCODE_D), "E": uint32(sdl.SCANCODE_E), "F": uint32(sdl.SCANCODE_F),
	"G": uint32(sdl.SCANCODE_G), "H": uint32(sdl.SCANCODE_H), "I": uint32(sdl.SCANCODE_I),
	"J": uint32(sdl.SCANCODE_J), "K": uint32(sdl.SCANCODE_K), "L": uint32(sdl.SCANCODE_L),
	"M": uint32(sdl.SCANCODE_M), "N": uint32(sdl.SCANCODE_N), "O": uint32(sdl.SCANCODE_O),
	"P": uint32(sdl.SCANCODE_P), "Q": uint32(sdl.SCANCODE_Q), "R": uint32(sdl.SCANCODE_R),
	"S": uint32(sdl.SCANCODE_S), "T": uint32(sdl.SCANCODE_T), "U": uint32(sdl.SCANCODE_U),
	"V": uint32(sdl.SCANCODE_V), "W": uint32(sdl.SCANCODE_W), "X": uint32(sdl.SCANCODE_X),
	"Y": uint32(sdl.SCANCODE_Y), "Z": uint32(sdl.SCANCODE_Z),
	"1": uint32(sdl.SCANCODE_1), "2": uint32(sdl.SCANCODE_2), "3": uint32(sdl.SCANCODE_3),
	"4": uint32(sdl.SCANCODE_4), "5": uint32(sdl.SCANCODE_5), "6": uint32(sdl.SCANCODE_6),
	"7": uint32(sdl.SCANCODE_7), "8": uint32(sdl.SCANCODE_8), "9": uint32(sdl.SCANCODE_9),
	"0": uint32(sdl.SCANCODE_0),
	"RETURN": uint32(sdl.SCANCODE_RETURN), "ESCAPE": uint32(sdl.SCANCODE_ESCAPE),
	"BACKSPACE": uint32(sdl.SCANCODE_BACKSPACE), "TAB": uint32(sdl.SCANCODE_TAB),
	"SPACE": uint32(sdl.SCANCODE_SPACE),
	"F1": uint32(sdl.SCANCODE_F1), "F2": uint32(sdl.SCANCODE_F2), "F3": uint32(sdl.SCANCODE_F3),
	"F4": uint32(sdl.SCANCODE_F4), "F5": uint32(sdl.SCANCODE_F5), "F6": uint32(sdl.SCANCODE_F6),
	"F7": uint32(sdl.SCANCODE_F7), "F8": uint32(sdl.SCANCODE_F8), "F9": uint32(sdl.SCANCODE_F9),
	"F10": uint32(sdl.SCANCODE_F10), "F11": uint32(sdl.SCANCODE_F11), "F12": uint32(sdl.SCANCODE_F12),
	"UP": uint32(sdl.SCANCODE_UP), "DOWN": uint32(sdl.SCANCODE_DOWN),
	"LEFT": uint32(sdl.SCANCODE_LEFT), "RIGHT": uint32(sdl.SCANCODE_RIGHT),
	"LCTRL": uint32(sdl.SCANCODE_LCTRL), "RCTRL": uint32(sdl.SCANCODE_RCTRL),
	"LSHIFT": uint32(sdl.SCANCODE_LSHIFT), "RSHIFT": uint32(sdl.SCANCODE_RSHIFT),
	"LALT": uint32(sdl.SCANCODE_LALT), "RALT": uint32(sdl.SCANCODE_RALT),
}

// HostKeycodeByName maps a `<keycode-name>` INPUT token to SDL2's keycode
// space, used as the fallback lookup when no scancode binding matches.
var HostKeycodeByName = map[string]uint32{
	"a": uint32(sdl.K_a), "b": uint32(sdl.K_b), "c": uint32(sdl.K_c), "d": uint32(sdl.K_d),
	"e": uint32(sdl.K_e), "f": uint32(sdl.K_f), "g": uint32(sdl.K_g), "h": uint32(sdl.K_h),
	"i": uint32(sdl.K_i), "j": uint32(sdl.K_j), "k": uint32(sdl.K_k), "l": uint32(sdl.K_l),
	"m": uint32(sdl.K_m), "n": uint32(sdl.K_n), "o": uint32(sdl.K_o), "p": uint32(sdl.K_p),
	"q": uint32(sdl.K_q), "r": uint32(sdl.K_r), "s": uint32(sdl.K_s), "t": uint32(sdl.K_t),
	"u": uint32(sdl.K_u), "v": uint32(sdl.K_v), "w": uint32(sdl.K_w), "x": uint32(sdl.K_x),
	"y": uint32(sdl.K_y), "z": uint32(sdl.K_z),
	"RETURN": uint32(sdl.K_RETURN), "ESCAPE": uint32(sdl.K_ESCAPE), "SPACE": uint32(sdl.K_SPACE),
}
