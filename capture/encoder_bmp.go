package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/jsummers/gobmp"
)

// BMPEncoder emits each frame as an uncompressed Windows BMP, the
// `ImageSequence` target's default still-frame format and the AVI
// "raw video" codec path (FourCC "DIB ").
type BMPEncoder struct {
	width, height int
	img           *image.RGBA
}

func NewBMPEncoder() *BMPEncoder { return &BMPEncoder{} }

func (e *BMPEncoder) SetupCompress(format PixelFormat, width, height int) error {
	if format != FormatRGB24 {
		return fmt.Errorf("capture: bmp encoder only accepts RGB24, got %v", format)
	}
	e.width, e.height = width, height
	e.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// NeededBufSize returns BMP's worst case: uncompressed, so header plus
// full pixel data.
func (e *BMPEncoder) NeededBufSize() int {
	return 54 + e.width*e.height*4
}

func (e *BMPEncoder) PrepareFrame(f Frame) {
	stride := f.stride()
	for y := 0; y < f.Height; y++ {
		row := f.RGB[y*stride : y*stride+stride]
		for x := 0; x < f.Width; x++ {
			o := x * 3
			e.img.SetRGBA(x, y, color.RGBA{row[o], row[o+1], row[o+2], 255})
		}
	}
}

func (e *BMPEncoder) CompressLines() ([]byte, bool, error) {
	var buf bytes.Buffer
	if err := gobmp.Encode(&buf, e.img); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

func (e *BMPEncoder) FinishFrame() {}

func (e *BMPEncoder) FourCC() [4]byte { return [4]byte{'D', 'I', 'B', ' '} }

func (e *BMPEncoder) Name() string { return "BMP" }
