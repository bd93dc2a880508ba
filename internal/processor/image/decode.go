package image

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	_ "github.com/gen2brain/avif"

	"github.com/imgpress/imgpress/internal/processor"
)

// Decode decodes image data and reports the source format name. JPEG inputs
// are auto-oriented according to their EXIF orientation tag before any
// further processing, matching what viewers display.
func Decode(data []byte) (image.Image, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", processor.ErrCorruptedFile, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", processor.ErrCorruptedFile, err)
	}

	return img, format, nil
}

// DecodeConfig reports the dimensions and format without a full decode.
func DecodeConfig(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: %v", processor.ErrCorruptedFile, err)
	}
	return cfg.Width, cfg.Height, format, nil
}
