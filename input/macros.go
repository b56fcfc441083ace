package input

// ExpandTypematic rewrites a single modified-key binding's program to
// repeat the key press at the guest keyboard's configured delay/rate:
// Wait(delayMs); <key down>; Wait(rateMs); SkipTo(the key-down index).
// The guest's keyboard device owns delay/rate, so callers re-run this
// whenever those values change rather than caching a fixed expansion.
func ExpandTypematic(keyCode uint32, delayMs, rateMs int) []ProgramEvent {
	const keyIdx = 1
	return []ProgramEvent{
		Wait(delayMs),
		Key(keyCode, true),
		Wait(rateMs),
		SkipTo(keyIdx),
	}
}

// ExpandAutofire replaces a binding's program with a press/release loop
// at the given half-period, applied once when the binding is parsed
// (autofire rate is a binding-time property, unlike typematic which
// tracks the guest keyboard's live configuration).
func ExpandAutofire(keyCode uint32, halfPeriodMs int) []ProgramEvent {
	const startIdx = 0
	return []ProgramEvent{
		Key(keyCode, true),
		Wait(halfPeriodMs),
		ReleaseIdx(0),
		Wait(halfPeriodMs),
		SkipTo(startIdx),
	}
}
