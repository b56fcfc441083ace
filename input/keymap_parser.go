package input

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseKeymapFile reads a line-oriented keymap in `INPUT = OUTPUT [; opts]`
// form and builds a Keymap. Blank lines and lines starting with `#` are
// ignored. A line that fails to parse is logged as a WARNING and skipped
// rather than aborting the whole file.
func ParseKeymapFile(path string) (*Keymap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: open keymap %s: %w", path, err)
	}
	defer f.Close()

	km := NewKeymap()
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := parseKeymapLine(km, line); err != nil {
			log.Warning("skipping malformed keymap line", "line", lineNo, "text", line, "error", err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("input: read keymap %s: %w", path, err)
	}
	return km, nil
}

func parseKeymapLine(km *Keymap, line string) error {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return fmt.Errorf("missing '='")
	}
	inputPart := strings.TrimSpace(line[:eq])
	rest := line[eq+1:]

	segments := strings.Split(rest, ";")
	outputPart := strings.TrimSpace(segments[0])

	mode := Momentary
	group := ""
	for _, opt := range segments[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case strings.HasPrefix(opt, "MODE:"):
			switch strings.TrimPrefix(opt, "MODE:") {
			case "LATCHED":
				mode = Latched
			case "1SHOT", "DEFAULT":
				mode = Momentary
			default:
				return fmt.Errorf("unrecognized MODE %q", opt)
			}
		case strings.HasPrefix(opt, "GROUP:"):
			group = strings.TrimPrefix(opt, "GROUP:")
		}
	}

	scancode, keycode, mods, err := parseInputTokens(inputPart)
	if err != nil {
		return err
	}
	program, autofire, typematic, err := parseOutputTokens(outputPart)
	if err != nil {
		return err
	}

	b := &Binding{Name: group, Mode: mode, Program: program, Autofire: autofire, Typematic: typematic}
	if scancode != 0 {
		km.BindScancode(scancode, mods, b)
	}
	if keycode != 0 {
		km.BindKeycode(keycode, mods, b)
	}
	if scancode == 0 && keycode == 0 {
		return fmt.Errorf("no recognized INPUT token in %q", inputPart)
	}
	return nil
}

// parseInputTokens resolves a `+`-joined INPUT token list to a scancode
// and/or keycode plus the combined modifier mask. KMOD_* tokens
// contribute only to the modifier mask; everything else is looked up
// first as a scancode name, then as a keycode name.
func parseInputTokens(s string) (scancode, keycode uint32, mods Modifiers, err error) {
	for _, tok := range strings.Split(s, "+") {
		tok = strings.TrimSpace(tok)
		switch {
		case strings.HasPrefix(tok, "KMOD_"):
			switch strings.TrimPrefix(tok, "KMOD_") {
			case "SHIFT":
				mods |= ModShift
			case "CTRL":
				mods |= ModCtrl
			case "ALT":
				mods |= ModAlt
			case "GUI":
				mods |= ModGui
			default:
				return 0, 0, 0, fmt.Errorf("unrecognized KMOD token %q", tok)
			}
		case tok == "":
			continue
		default:
			if code, ok := HostScancodeByName[tok]; ok {
				scancode = code
			} else if code, ok := HostKeycodeByName[tok]; ok {
				keycode = code
			} else {
				return 0, 0, 0, fmt.Errorf("unrecognized INPUT token %q", tok)
			}
		}
	}
	return scancode, keycode, mods, nil
}

// parseOutputTokens resolves a `+`-joined OUTPUT token list to a program.
// AUTOFIRE(ms) replaces the whole program with its ExpandAutofire loop
// rather than appending; each KEY_* token appends a key press and marks
// the binding typematic, with no typematic expansion applied here.
func parseOutputTokens(s string) (program []ProgramEvent, autofire, typematic bool, err error) {
	for _, tok := range strings.Split(s, "+") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		name, args, hasArgs := splitCall(tok)
		switch {
		case strings.HasPrefix(tok, "KEY_"):
			code, ok := GuestKeyByName[tok]
			if !ok {
				return nil, false, false, fmt.Errorf("unrecognized KEY token %q", tok)
			}
			program = append(program, Key(code, true))
			typematic = true
		case strings.HasPrefix(tok, "FUNC_"):
			program = append(program, Func(tok))
		case name == "WAIT" && hasArgs:
			ms, err := parseWaitArg(args)
			if err != nil {
				return nil, false, false, err
			}
			program = append(program, Wait(ms))
		case name == "RELEASE" && hasArgs:
			idx, err := strconv.Atoi(strings.TrimSpace(args))
			if err != nil {
				return nil, false, false, fmt.Errorf("bad RELEASE arg %q: %w", args, err)
			}
			program = append(program, ReleaseIdx(idx))
		case name == "SKIP_TO" && hasArgs:
			idx, err := strconv.Atoi(strings.TrimSpace(args))
			if err != nil {
				return nil, false, false, fmt.Errorf("bad SKIP_TO arg %q: %w", args, err)
			}
			program = append(program, SkipTo(idx))
		case name == "AUTOFIRE" && hasArgs:
			ms, err := strconv.Atoi(strings.TrimSpace(args))
			if err != nil {
				return nil, false, false, fmt.Errorf("bad AUTOFIRE arg %q: %w", args, err)
			}
			if len(program) == 0 {
				return nil, false, false, fmt.Errorf("AUTOFIRE with no preceding KEY_*")
			}
			lastKey := program[len(program)-1].KeyCode
			program = ExpandAutofire(lastKey, ms/2)
			autofire = true
		default:
			return nil, false, false, fmt.Errorf("unrecognized OUTPUT token %q", tok)
		}
	}
	return program, autofire, typematic, nil
}

func splitCall(tok string) (name, args string, hasArgs bool) {
	open := strings.IndexByte(tok, '(')
	if open < 0 || !strings.HasSuffix(tok, ")") {
		return tok, "", false
	}
	return tok[:open], tok[open+1 : len(tok)-1], true
}

// parseWaitArg accepts a literal millisecond count; the `TMD`/`TMR`
// symbolic forms (guest keyboard's configured typematic delay/rate) are
// not resolved here: they parse to a 0 ms wait, and nothing in this
// package substitutes the keyboard's delay/rate for them.
func parseWaitArg(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "TMD", "TMR":
		return 0, nil
	default:
		return strconv.Atoi(arg)
	}
}
