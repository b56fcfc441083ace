// Package capture implements the video/audio recording pipeline: a frame
// queue draining into a selectable target (numbered image sequence or AVI
// container), each target driven through a selectable frame encoder
// (raw BMP, motion PNG, or ZMBV delta+deflate).
package capture

// Frame is one captured video frame: packed RGB24 pixels, row-major,
// top-down, paired with the audio bytes produced since the previous frame.
type Frame struct {
	Width, Height int
	RGB           []byte
	Audio         []byte
	KeyframeHint  bool
}

// PixelFormat fixes the encoder's expected input layout. The pipeline only
// ever produces RGB24; this exists so an encoder can validate what it was
// configured for matches what it receives.
type PixelFormat int

const (
	FormatRGB24 PixelFormat = iota
)

func (f Frame) bytesPerPixel() int { return 3 }

func (f Frame) stride() int { return f.Width * f.bytesPerPixel() }
