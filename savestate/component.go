package savestate

// Component is one entry in the state.bin chunk sequence: a tagged block
// of binary state, saved and restored in registration order. Tags are
// truncated to 8 bytes, so keep them short and stable across releases.
type Component interface {
	Tag() string
	SaveState(w *ChunkWriter) error
	LoadState(r *ChunkReader) error
}

// Registry walks a fixed, ordered list of Components, writing or reading
// state.bin as one contiguous chunk stream. The order components are
// added in is the order their chunks appear on disk; changing it breaks
// compatibility with existing records, same as the original's per-device
// save_state/restore_state convention it's modeled on.
type Registry struct {
	components []Component
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Add(c Component) { r.components = append(r.components, c) }

// WriteAll asks every registered component, in order, to append its chunk.
func (r *Registry) WriteAll(cw *ChunkWriter) error {
	for _, c := range r.components {
		if err := c.SaveState(cw); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll feeds every registered component's chunk back to it, in the same
// order it was written, verifying each tag as it goes.
func (r *Registry) ReadAll(cr *ChunkReader) error {
	for _, c := range r.components {
		if err := c.LoadState(cr); err != nil {
			return err
		}
	}
	return nil
}
