package image

import (
	"image"
	"strings"

	"github.com/fogleman/gg"
)

type WatermarkOptions struct {
	Text     string
	Position string
	Opacity  float64
	FontSize float64
}

func defaultWatermarkOptions(text string) WatermarkOptions {
	return WatermarkOptions{
		Text:     text,
		Position: "bottom-right",
		Opacity:  0.5,
		FontSize: 24,
	}
}

// ApplyWatermark stamps text onto the image. When no usable font file is
// found on the system the text is drawn with gg's built-in face.
func ApplyWatermark(img image.Image, opts WatermarkOptions) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	dc := gg.NewContext(width, height)
	dc.DrawImage(img, 0, 0)

	fontSize := opts.FontSize
	if fontSize < 12 {
		fontSize = 12
	}
	minDim := float64(min(width, height))
	if fontSize > minDim/4 {
		fontSize = minDim / 4
	}

	if err := dc.LoadFontFace("/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf", fontSize); err != nil {
		if err := dc.LoadFontFace("/System/Library/Fonts/Helvetica.ttc", fontSize); err != nil {
			dc.SetRGB(1, 1, 1)
		}
	}

	x, y, ax, ay := textPosition(width, height, opts.Position, fontSize)

	// Drop shadow first, then the text itself.
	dc.SetRGBA(0, 0, 0, opts.Opacity*0.5)
	dc.DrawStringAnchored(opts.Text, x+2, y+2, ax, ay)

	dc.SetRGBA(1, 1, 1, opts.Opacity)
	dc.DrawStringAnchored(opts.Text, x, y, ax, ay)

	return dc.Image()
}

func textPosition(width, height int, position string, fontSize float64) (x, y, ax, ay float64) {
	padding := fontSize * 0.5
	w := float64(width)
	h := float64(height)

	switch strings.ToLower(position) {
	case "top-left":
		return padding, padding, 0, 0
	case "top-right":
		return w - padding, padding, 1, 0
	case "bottom-left":
		return padding, h - padding, 0, 1
	case "center":
		return w / 2, h / 2, 0.5, 0.5
	default:
		return w - padding, h - padding, 1, 1
	}
}
