package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// createTestImage creates a test image with a gradient pattern.
// The gradient makes encode loss and resizes easy to verify.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8(255 * x / width)
			g := uint8(255 * y / height)
			b := uint8(128)
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	return img
}

// encodeTestJPEG encodes an image as JPEG bytes.
func encodeTestJPEG(img image.Image, quality int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	return buf.Bytes()
}

// encodeTestPNG encodes an image as PNG bytes.
func encodeTestPNG(img image.Image) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// createTestJPEG creates JPEG bytes of the specified size.
func createTestJPEG(width, height int) []byte {
	return encodeTestJPEG(createTestImage(width, height), 85)
}

// createTestPNG creates PNG bytes of the specified size.
func createTestPNG(width, height int) []byte {
	return encodeTestPNG(createTestImage(width, height))
}

// createInvalidImage returns data that is not a valid image.
func createInvalidImage() []byte {
	return []byte("this is not an image")
}

// createCorruptedJPEG returns a truncated JPEG (valid header, incomplete data).
func createCorruptedJPEG() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
}
