package capture

import (
	"fmt"
	"os"
	"path/filepath"
)

// ImageSequenceTarget writes each frame as a numbered still image into a
// freshly-created `video_NNNN` directory.
type ImageSequenceTarget struct {
	dir     string
	encoder Encoder
	ext     string
	index   int
	setup   bool
}

// NewImageSequenceTarget creates `video_NNNN` under root (seq picks the
// directory number) and prepares it to receive frames through enc.
func NewImageSequenceTarget(root string, seq int, enc Encoder, ext string) (*ImageSequenceTarget, error) {
	dir := filepath.Join(root, fmt.Sprintf("video_%04d", seq))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageSequenceTarget{dir: dir, encoder: enc, ext: ext}, nil
}

func (t *ImageSequenceTarget) WriteFrame(f Frame) error {
	if !t.setup {
		if err := t.encoder.SetupCompress(FormatRGB24, f.Width, f.Height); err != nil {
			return err
		}
		t.setup = true
	}
	t.encoder.PrepareFrame(f)
	data, _, err := t.encoder.CompressLines()
	t.encoder.FinishFrame()
	if err != nil {
		return err
	}
	path := filepath.Join(t.dir, fmt.Sprintf("%08d.%s", t.index, t.ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	t.index++
	return nil
}

func (t *ImageSequenceTarget) Close() error { return nil }

func (t *ImageSequenceTarget) Name() string { return t.dir }
