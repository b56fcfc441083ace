//go:build headless

package input

// HostScancodeByName mirrors the real SDL2 scancode values by name, so a
// keymap file parses identically whether or not the SDL backend is built
// in. Numbering follows the USB HID usage table SDL2 itself uses.
var HostScancodeByName = map[string]uint32{
	"A": 4, "B": 5, "C": 6, "D": 7, "E": 8, "F": 9, "G": 10, "H": 11, "I": 12,
	"J": 13, "K": 14, "L": 15, "M": 16, "N": 17, "O": 18, "P": 19, "Q": 20,
	"R": 21, "S": 22, "T": 23, "U": 24, "V": 25, "W": 26, "X": 27, "Y": 28, "Z": 29,
	"1": 30, "2": 31, "3": 32, "4": 33, "5": 34, "6": 35, "7": 36, "8": 37, "9": 38, "0": 39,
	"RETURN": 40, "ESCAPE": 41, "BACKSPACE": 42, "TAB": 43, "SPACE": 44,
	"F1": 58, "F2": 59, "F3": 60, "F4": 61, "F5": 62, "F6": 63, "F7": 64, "F8": 65,
	"F9": 66, "F10": 67, "F11": 68, "F12": 69,
	"RIGHT": 79, "LEFT": 80, "DOWN": 81, "UP": 82,
	"LCTRL": 224, "LSHIFT": 225, "LALT": 226, "RCTRL": 228, "RSHIFT": 229, "RALT": 230,
}

// HostKeycodeByName mirrors SDL2's keycode space for the keycode-name
// fallback lookup.
var HostKeycodeByName = map[string]uint32{
	"a": 97, "b": 98, "c": 99, "d": 100, "e": 101, "f": 102, "g": 103, "h": 104,
	"i": 105, "j": 106, "k": 107, "l": 108, "m": 109, "n": 110, "o": 111, "p": 112,
	"q": 113, "r": 114, "s": 115, "t": 116, "u": 117, "v": 118, "w": 119, "x": 120,
	"y": 121, "z": 122,
	"RETURN": 13, "ESCAPE": 27, "SPACE": 32,
}
