package capture

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// WriteScreenshot downscales an RGB24 frame to the given thumbnail width
// (preserving aspect ratio) and writes it as PNG, used for the savestate
// `state.png` thumbnail.
func WriteScreenshot(w io.Writer, f Frame, thumbWidth uint) error {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	stride := f.stride()
	for y := 0; y < f.Height; y++ {
		row := f.RGB[y*stride : y*stride+stride]
		for x := 0; x < f.Width; x++ {
			o := x * 3
			img.SetRGBA(x, y, color.RGBA{row[o], row[o+1], row[o+2], 255})
		}
	}
	thumb := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
	return png.Encode(w, thumb)
}
