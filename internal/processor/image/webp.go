package image

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"

	"github.com/imgpress/imgpress/internal/processor"
)

var _ processor.Encoder = (*WebPEncoder)(nil)

// WebPEncoder encodes lossy WebP. Decoding comes from golang.org/x/image/webp,
// registered in decode.go.
type WebPEncoder struct{}

func (WebPEncoder) Format() string    { return "webp" }
func (WebPEncoder) Extension() string { return ".webp" }

func (WebPEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	if err != nil {
		return fmt.Errorf("%w: webp: %v", processor.ErrEncodeFailed, err)
	}
	return nil
}
