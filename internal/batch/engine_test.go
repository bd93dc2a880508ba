package batch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/imgpress/imgpress/internal/processor"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(255 * x / width),
				G: uint8(255 * y / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func writeJPEG(t *testing.T, dir, name string, width, height int) {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, dir, name string, width, height int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(width, height)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestEngine(opts processor.Options, metrics bool) *Engine {
	return NewEngine(EngineConfig{
		Options: opts,
		Threads: 2,
		Metrics: metrics,
		Logger:  zerolog.Nop(),
	})
}

func TestEngine_Run(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writeJPEG(t, inDir, "one.jpg", 320, 240)
	writeJPEG(t, inDir, "two.jpg", 100, 100)
	writePNG(t, inDir, "three.png", 64, 64)
	if err := os.WriteFile(filepath.Join(inDir, "broken.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, _, err := Scan(inDir)
	if err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(processor.Options{Quality: 75}, false)

	var progressed atomic.Int64
	engine.OnProgress = func() { progressed.Add(1) }

	results := engine.Run(context.Background(), sources, outDir)

	if len(results) != len(sources) {
		t.Fatalf("got %d results for %d sources", len(results), len(sources))
	}
	if progressed.Load() != int64(len(sources)) {
		t.Errorf("progress fired %d times, want %d", progressed.Load(), len(sources))
	}

	var okCount, errCount int
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			okCount++
			if _, err := os.Stat(r.OutputPath); err != nil {
				t.Errorf("missing output for %s: %v", r.Filename, err)
			}
			if r.OptimizedBytes <= 0 {
				t.Errorf("%s: optimized size %d", r.Filename, r.OptimizedBytes)
			}
		case StatusError:
			errCount++
			if r.Filename != "broken.jpg" {
				t.Errorf("unexpected failure for %s: %v", r.Filename, r.Err)
			}
			if r.OptimizedBytes != r.OriginalBytes {
				t.Errorf("error row should mirror original size")
			}
		}
	}

	if okCount != 3 || errCount != 1 {
		t.Errorf("ok=%d err=%d, want ok=3 err=1", okCount, errCount)
	}
}

func TestEngine_Run_Resize(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeJPEG(t, inDir, "big.jpg", 800, 400)

	sources, _, err := Scan(inDir)
	if err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(processor.Options{Quality: 80, MaxWidth: 200, MaxHeight: 200}, false)
	results := engine.Run(context.Background(), sources, outDir)

	if results[0].Status != StatusOK {
		t.Fatalf("resize run failed: %v", results[0].Err)
	}

	f, err := os.Open(results[0].OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width > 200 || cfg.Height > 200 {
		t.Errorf("output %dx%d exceeds 200x200", cfg.Width, cfg.Height)
	}
}

func TestEngine_Run_FormatConversion(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
	}{
		{"png", ".png"},
		{"webp", ".webp"},
		{"avif", ".avif"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			inDir := t.TempDir()
			outDir := t.TempDir()
			writeJPEG(t, inDir, "photo.jpg", 64, 64)

			sources, _, err := Scan(inDir)
			if err != nil {
				t.Fatal(err)
			}

			engine := newTestEngine(processor.Options{Quality: 80, Format: tt.format}, false)
			results := engine.Run(context.Background(), sources, outDir)

			if results[0].Status != StatusOK {
				t.Fatalf("conversion failed: %v", results[0].Err)
			}
			if filepath.Ext(results[0].OutputPath) != tt.wantExt {
				t.Errorf("output path %s, want %s extension", results[0].OutputPath, tt.wantExt)
			}

			data, err := os.ReadFile(results[0].OutputPath)
			if err != nil {
				t.Fatal(err)
			}
			_, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("output does not decode: %v", err)
			}
			if format != tt.format {
				t.Errorf("output decodes as %q, want %q", format, tt.format)
			}
		})
	}
}

func TestEngine_Run_Metrics(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeJPEG(t, inDir, "photo.jpg", 128, 128)

	sources, _, err := Scan(inDir)
	if err != nil {
		t.Fatal(err)
	}

	engine := newTestEngine(processor.Options{Quality: 60}, true)
	results := engine.Run(context.Background(), sources, outDir)

	r := results[0]
	if r.Status != StatusOK {
		t.Fatalf("run failed: %v", r.Err)
	}
	if r.PSNR == nil || r.SSIM == nil {
		t.Fatal("metrics enabled but PSNR/SSIM missing")
	}
	if *r.PSNR <= 0 {
		t.Errorf("PSNR = %v, want positive", *r.PSNR)
	}
	if *r.SSIM <= 0 || *r.SSIM > 1 {
		t.Errorf("SSIM = %v, want (0, 1]", *r.SSIM)
	}
}

func TestEngine_Run_CancelledContext(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeJPEG(t, inDir, "a.jpg", 32, 32)
	writeJPEG(t, inDir, "b.jpg", 32, 32)

	sources, _, err := Scan(inDir)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(processor.Options{Quality: 80}, false)
	results := engine.Run(ctx, sources, outDir)

	for _, r := range results {
		if r.Status != StatusError {
			t.Errorf("%s: status %q, want error after cancellation", r.Filename, r.Status)
		}
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Status: StatusOK, OriginalBytes: 1000, OptimizedBytes: 600},
		{Status: StatusOK, OriginalBytes: 500, OptimizedBytes: 500},
		{Status: StatusError, OriginalBytes: 200, OptimizedBytes: 200},
	}

	s := Summarize("run-1", results, 3*time.Second)

	if s.TotalFiles != 3 || s.Processed != 2 || s.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", s.TotalFiles, s.Processed, s.Failed)
	}
	if s.OriginalBytes != 1700 || s.OptimizedBytes != 1300 {
		t.Errorf("bytes = %d/%d, want 1700/1300", s.OriginalBytes, s.OptimizedBytes)
	}
	if s.SavedBytes() != 400 {
		t.Errorf("SavedBytes() = %d, want 400", s.SavedBytes())
	}
	if pct := s.SavedPct(); pct < 23.5 || pct > 23.6 {
		t.Errorf("SavedPct() = %v, want ~23.53", pct)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize("run-2", nil, 0)
	if s.SavedPct() != 0 {
		t.Errorf("SavedPct() of empty batch = %v, want 0", s.SavedPct())
	}
}
