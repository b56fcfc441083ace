package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// MPNGEncoder emits each frame as an independently-decodable PNG, trading
// BMP's zero compression cost for per-frame deflate (FourCC "MPNG").
type MPNGEncoder struct {
	width, height int
	img           *image.RGBA
	enc           png.Encoder
}

func NewMPNGEncoder() *MPNGEncoder {
	return &MPNGEncoder{enc: png.Encoder{CompressionLevel: png.BestSpeed}}
}

func (e *MPNGEncoder) SetupCompress(format PixelFormat, width, height int) error {
	if format != FormatRGB24 {
		return fmt.Errorf("capture: mpng encoder only accepts RGB24, got %v", format)
	}
	e.width, e.height = width, height
	e.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

func (e *MPNGEncoder) NeededBufSize() int {
	return e.width*e.height*4 + 1024
}

func (e *MPNGEncoder) PrepareFrame(f Frame) {
	stride := f.stride()
	for y := 0; y < f.Height; y++ {
		row := f.RGB[y*stride : y*stride+stride]
		for x := 0; x < f.Width; x++ {
			o := x * 3
			e.img.SetRGBA(x, y, color.RGBA{row[o], row[o+1], row[o+2], 255})
		}
	}
}

func (e *MPNGEncoder) CompressLines() ([]byte, bool, error) {
	var buf bytes.Buffer
	if err := e.enc.Encode(&buf, e.img); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

func (e *MPNGEncoder) FinishFrame() {}

func (e *MPNGEncoder) FourCC() [4]byte { return [4]byte{'M', 'P', 'N', 'G'} }

func (e *MPNGEncoder) Name() string { return "MPNG" }
