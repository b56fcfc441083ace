package input

// ProgramEventKind enumerates the macro instruction set a binding's
// program is compiled to.
type ProgramEventKind int

const (
	PKey ProgramEventKind = iota
	PWait
	PRelease
	PSkipTo
	PFunc
)

// ProgramEvent is one instruction in a binding's program. Key carries the
// guest keycode and press/release state; Wait parks the running event for
// DelayMs; Release sends release events for referenced indices (or all
// preceding Key events when ReleaseAll is set); SkipTo loops execution
// back to an earlier index; Func invokes a host-side callback by name and
// never suspends.
type ProgramEvent struct {
	Kind       ProgramEventKind
	KeyCode    uint32
	Pressed    bool
	DelayMs    int
	ReleaseIdx []int
	ReleaseAll bool
	SkipIdx    int
	FuncName   string
}

func Key(code uint32, pressed bool) ProgramEvent {
	return ProgramEvent{Kind: PKey, KeyCode: code, Pressed: pressed}
}

func Wait(ms int) ProgramEvent { return ProgramEvent{Kind: PWait, DelayMs: ms} }

func ReleaseAll() ProgramEvent { return ProgramEvent{Kind: PRelease, ReleaseAll: true} }

func ReleaseIdx(idx ...int) ProgramEvent { return ProgramEvent{Kind: PRelease, ReleaseIdx: idx} }

func SkipTo(idx int) ProgramEvent { return ProgramEvent{Kind: PSkipTo, SkipIdx: idx} }

func Func(name string) ProgramEvent { return ProgramEvent{Kind: PFunc, FuncName: name} }

// BindingMode selects how a binding's program is driven by press/release.
type BindingMode int

const (
	// Momentary runs the program on press, the reverse sequence on release.
	Momentary BindingMode = iota
	// Latched toggles a persistent running state on each press (StartEvt).
	Latched
)

// Binding is the keymap entry a scancode/keycode combination resolves to.
type Binding struct {
	Name     string
	Mode     BindingMode
	Program  []ProgramEvent
	Autofire bool
	Typematic bool
}
