package image

import (
	"image"

	"github.com/disintegration/imaging"
)

// FitWithin scales img down to fit inside maxWidth x maxHeight preserving
// aspect ratio. A zero bound leaves that axis unconstrained. Images already
// inside the box are returned unchanged; this never scales up.
func FitWithin(img image.Image, maxWidth, maxHeight int) image.Image {
	if maxWidth <= 0 && maxHeight <= 0 {
		return img
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxWidth <= 0 {
		maxWidth = w
	}
	if maxHeight <= 0 {
		maxHeight = h
	}

	if w <= maxWidth && h <= maxHeight {
		return img
	}

	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
