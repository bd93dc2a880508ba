package image

import (
	"bytes"
	"context"
	"fmt"

	"github.com/imgpress/imgpress/internal/processor"
)

// Optimizer runs the per-file transformation pipeline: decode, bounded
// resize, optional watermark, re-encode, optional EXIF carry-over.
type Optimizer struct {
	config   *processor.Config
	registry *processor.Registry
}

func NewOptimizer(cfg *processor.Config) *Optimizer {
	if cfg == nil {
		cfg = processor.DefaultConfig()
	}
	return &Optimizer{
		config:   cfg,
		registry: DefaultRegistry(),
	}
}

func (o *Optimizer) Process(ctx context.Context, opts *processor.Options, input []byte) (*processor.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, srcFormat, err := Decode(input)
	if err != nil {
		return nil, err
	}

	img = FitWithin(img, opts.MaxWidth, opts.MaxHeight)

	if opts.Watermark != "" {
		img = ApplyWatermark(img, defaultWatermarkOptions(opts.Watermark))
	}

	outFormat := opts.Format
	if outFormat == "" || outFormat == "original" {
		outFormat = srcFormat
	}

	enc, err := o.registry.GetOrError(outFormat)
	if err != nil {
		return nil, err
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = o.config.Quality
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img, quality); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	if opts.PreserveMetadata && enc.Format() == "jpeg" && srcFormat == "jpeg" {
		if app1 := ExtractEXIF(input); app1 != nil {
			withExif, err := InjectEXIF(data, app1)
			if err != nil {
				return nil, fmt.Errorf("preserve metadata: %w", err)
			}
			data = withExif
		}
	}

	bounds := img.Bounds()
	return &processor.Result{
		Data:    data,
		Format:  enc.Format(),
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Quality: quality,
		Image:   img,
	}, nil
}

// Extension returns the file extension for a target format.
func (o *Optimizer) Extension(format string) (string, error) {
	enc, err := o.registry.GetOrError(format)
	if err != nil {
		return "", err
	}
	return enc.Extension(), nil
}
