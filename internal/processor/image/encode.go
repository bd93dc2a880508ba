package image

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/gen2brain/jpegli"

	"github.com/imgpress/imgpress/internal/processor"
)

var _ processor.Encoder = (*JPEGEncoder)(nil)
var _ processor.Encoder = (*PNGEncoder)(nil)

// JPEGEncoder encodes JPEG output through jpegli, which produces smaller
// files than the standard library encoder at the same quality.
type JPEGEncoder struct{}

func (JPEGEncoder) Format() string    { return "jpeg" }
func (JPEGEncoder) Extension() string { return ".jpg" }

func (JPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	err := jpegli.Encode(w, img, &jpegli.EncodingOptions{
		Quality:           quality,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
	if err != nil {
		return fmt.Errorf("%w: jpeg: %v", processor.ErrEncodeFailed, err)
	}
	return nil
}

// PNGEncoder encodes PNG at the best compression level. Quality is ignored,
// PNG is lossless.
type PNGEncoder struct{}

func (PNGEncoder) Format() string    { return "png" }
func (PNGEncoder) Extension() string { return ".png" }

func (PNGEncoder) Encode(w io.Writer, img image.Image, _ int) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("%w: png: %v", processor.ErrEncodeFailed, err)
	}
	return nil
}

// DefaultRegistry returns a registry with all supported output encoders.
func DefaultRegistry() *processor.Registry {
	r := processor.NewRegistry()
	r.Register(JPEGEncoder{}, "jpg")
	r.Register(PNGEncoder{})
	r.Register(WebPEncoder{})
	r.Register(AVIFEncoder{})
	return r
}
