package processor

import (
	"errors"
	"image"
	"io"
)

var (
	ErrUnsupportedFormat = errors.New("processor: unsupported image format")
	ErrEncodeFailed      = errors.New("processor: encoding failed")
	ErrInvalidConfig     = errors.New("processor: invalid configuration")
	ErrCorruptedFile     = errors.New("processor: file appears corrupted")
)

// Options controls a single file transformation.
type Options struct {
	// Quality is the encode quality (1-100). Ignored by lossless formats.
	Quality int

	// MaxWidth and MaxHeight bound the output dimensions. Zero means
	// unconstrained on that axis. The image is never cropped; it is fit
	// within the box preserving aspect ratio.
	MaxWidth  int
	MaxHeight int

	// Format is the target format name ("jpeg", "png", "webp", "avif").
	// Empty means keep the source format.
	Format string

	// PreserveMetadata keeps the EXIF segment on JPEG outputs.
	PreserveMetadata bool

	// Watermark is optional text stamped onto the output.
	Watermark string
}

// Result holds the outcome of a transformation.
type Result struct {
	Data    []byte
	Format  string
	Width   int
	Height  int
	Quality int

	// Image is the transformed pixel data, retained so callers can compute
	// quality metrics without a second decode.
	Image image.Image
}

type Config struct {
	Quality      int
	MaxDimension int
}

func DefaultConfig() *Config {
	return &Config{
		Quality:      85,
		MaxDimension: 16383,
	}
}

// Encoder serializes an image to a specific output format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
	Format() string
	Extension() string
}
