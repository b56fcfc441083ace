//go:build headless

package input

// HeadlessSource lets tests and CI inject synthetic HostEvents without a
// real display/input library.
type HeadlessSource struct {
	pending []HostEvent
}

func NewHeadlessSource() *HeadlessSource { return &HeadlessSource{} }

func (s *HeadlessSource) Inject(ev HostEvent) { s.pending = append(s.pending, ev) }

func (s *HeadlessSource) Poll(onEvent func(HostEvent)) {
	for _, ev := range s.pending {
		onEvent(ev)
	}
	s.pending = s.pending[:0]
}
