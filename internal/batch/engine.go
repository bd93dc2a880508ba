package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/imgpress/imgpress/internal/processor"
	procimage "github.com/imgpress/imgpress/internal/processor/image"
	"github.com/imgpress/imgpress/internal/quality"
)

// Engine fans a file list out over a worker pool and collects per-file
// results. Each file is independent; a failure is recorded and the batch
// moves on.
type Engine struct {
	optimizer *procimage.Optimizer
	opts      processor.Options
	threads   int
	metrics   bool
	log       zerolog.Logger

	// OnProgress, when set, is called once per finished file from worker
	// goroutines. It must be safe for concurrent use.
	OnProgress func()
}

type EngineConfig struct {
	Options processor.Options
	Threads int
	Metrics bool
	Logger  zerolog.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	threads := cfg.Threads
	if threads <= 0 {
		threads = 4
	}
	return &Engine{
		optimizer: procimage.NewOptimizer(nil),
		opts:      cfg.Options,
		threads:   threads,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
	}
}

// Run processes every source into outputDir. The returned slice has one
// entry per source, in source order. Context cancellation stops scheduling
// new files; already-started files run to completion and cancelled slots are
// recorded as errors.
func (e *Engine) Run(ctx context.Context, sources []Source, outputDir string) []Result {
	results := make([]Result, len(sources))

	var g errgroup.Group
	g.SetLimit(e.threads)

	for i, src := range sources {
		if ctx.Err() != nil {
			results[i] = ErrorResult(src.Name, src.Size, ctx.Err())
			continue
		}
		g.Go(func() error {
			results[i] = e.processOne(context.WithoutCancel(ctx), src, outputDir)
			if e.OnProgress != nil {
				e.OnProgress()
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (e *Engine) processOne(ctx context.Context, src Source, outputDir string) Result {
	input, err := os.ReadFile(src.Path)
	if err != nil {
		e.log.Error().Err(err).Str("file", src.Name).Msg("read failed")
		return ErrorResult(src.Name, src.Size, err)
	}

	res, err := e.optimizer.Process(ctx, &e.opts, input)
	if err != nil {
		e.log.Error().Err(err).Str("file", src.Name).Msg("processing failed")
		return ErrorResult(src.Name, src.Size, err)
	}

	outPath := filepath.Join(outputDir, outputName(src.Name, res.Format))
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		e.log.Error().Err(err).Str("file", src.Name).Msg("write failed")
		return ErrorResult(src.Name, src.Size, err)
	}

	result := Result{
		Filename:       src.Name,
		Status:         StatusOK,
		OriginalBytes:  src.Size,
		OptimizedBytes: int64(len(res.Data)),
		OutputPath:     outPath,
	}
	if src.Size > 0 {
		result.ReductionPct = float64(src.Size-result.OptimizedBytes) / float64(src.Size) * 100
	}

	if e.metrics {
		if m, err := e.measure(res); err != nil {
			e.log.Warn().Err(err).Str("file", src.Name).Msg("quality metrics skipped")
		} else {
			result.PSNR = &m.PSNR
			result.SSIM = &m.SSIM
		}
	}

	e.log.Info().
		Str("file", src.Name).
		Int64("original_bytes", src.Size).
		Int64("optimized_bytes", result.OptimizedBytes).
		Float64("reduction_pct", result.ReductionPct).
		Msg("optimized")

	return result
}

// measure decodes the encoded output and compares it against the pre-encode
// pixels, so the metrics capture exactly the loss the encoder introduced.
func (e *Engine) measure(res *processor.Result) (quality.Metrics, error) {
	decoded, _, err := procimage.Decode(res.Data)
	if err != nil {
		return quality.Metrics{}, err
	}
	return quality.Compare(res.Image, decoded)
}

// outputName swaps the extension to match the output format.
func outputName(name, format string) string {
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return base + ext
}
