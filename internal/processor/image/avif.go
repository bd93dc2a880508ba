package image

import (
	"fmt"
	"image"
	"io"

	"github.com/gen2brain/avif"

	"github.com/imgpress/imgpress/internal/processor"
)

var _ processor.Encoder = (*AVIFEncoder)(nil)

// AVIFEncoder encodes AVIF output. The gen2brain/avif import also registers
// the AVIF decoder with image.Decode.
type AVIFEncoder struct{}

func (AVIFEncoder) Format() string    { return "avif" }
func (AVIFEncoder) Extension() string { return ".avif" }

func (AVIFEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	// Speed 8 trades a little density for much faster encodes, sensible for
	// a batch tool walking whole directories.
	err := avif.Encode(w, img, avif.Options{Quality: quality, Speed: 8})
	if err != nil {
		return fmt.Errorf("%w: avif: %v", processor.ErrEncodeFailed, err)
	}
	return nil
}
