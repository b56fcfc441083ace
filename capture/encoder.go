package capture

// Encoder is the tagged-variant interface every frame codec implements:
// fix the pixel format once, report a worst-case buffer size, then run
// prepare/compress/finish per frame.
type Encoder interface {
	// SetupCompress fixes the pixel format this encoder will receive.
	SetupCompress(format PixelFormat, width, height int) error
	// NeededBufSize returns the worst-case compressed size for one frame
	// at the configured dimensions, so callers can preallocate.
	NeededBufSize() int
	// PrepareFrame resets any per-frame working state.
	PrepareFrame(f Frame)
	// CompressLines encodes all rows of the current frame, returning the
	// encoded bytes and whether this frame is a keyframe.
	CompressLines() (data []byte, keyframe bool, err error)
	// FinishFrame releases any per-frame working state.
	FinishFrame()
	// FourCC is the AVI stream FourCC this encoder's output is tagged
	// with (e.g. "BMPZ" analog tags aren't real AVI fourccs, so each
	// encoder reports its own registered codec tag).
	FourCC() [4]byte
	// Name identifies the encoder for logging and capture-log entries.
	Name() string
}
