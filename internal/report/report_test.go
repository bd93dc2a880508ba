package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imgpress/imgpress/internal/batch"
)

func sampleResults() []batch.Result {
	psnr := 38.54
	ssim := 0.9812
	return []batch.Result{
		{
			Filename:       "a.jpg",
			Status:         batch.StatusOK,
			OriginalBytes:  10000,
			OptimizedBytes: 6000,
			ReductionPct:   40.0,
			OutputPath:     "out/a.jpg",
			PSNR:           &psnr,
			SSIM:           &ssim,
		},
		{
			Filename:       "b.png",
			Status:         batch.StatusOK,
			OriginalBytes:  5000,
			OptimizedBytes: 5500,
			ReductionPct:   -10.0,
			OutputPath:     "out/b.png",
		},
		batch.ErrorResult("broken.jpg", 1234, errors.New("file appears corrupted")),
	}
}

func sampleSummary(results []batch.Result) batch.Summary {
	return batch.Summarize("9f1c8e0a", results, 1500*time.Millisecond)
}

func TestWriteCSV(t *testing.T) {
	results := sampleResults()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, len(results)+1, "header plus one row per result")
	require.Equal(t, csvHeader, rows[0])

	require.Equal(t, "a.jpg", rows[1][0])
	require.Equal(t, "ok", rows[1][1])
	require.Equal(t, "10000", rows[1][2])
	require.Equal(t, "6000", rows[1][3])
	require.Equal(t, "40.00", rows[1][4])
	require.Equal(t, "38.5400", rows[1][5])
	require.Equal(t, "0.9812", rows[1][6])

	// No metrics computed for b.png.
	require.Empty(t, rows[2][5])
	require.Empty(t, rows[2][6])

	require.True(t, strings.HasPrefix(rows[3][1], "error:"), "error row status, got %q", rows[3][1])
	require.Equal(t, "1234", rows[3][2])
}

func TestWriteHTML(t *testing.T) {
	results := sampleResults()
	summary := sampleSummary(results)

	var buf bytes.Buffer
	err := WriteHTML(&buf, Params{InputDir: "./in", OutputDir: "./out"}, summary, results)
	require.NoError(t, err)

	html := buf.String()
	require.Contains(t, html, "a.jpg")
	require.Contains(t, html, "broken.jpg")
	require.Contains(t, html, summary.RunID)
	require.Contains(t, html, "charts/per_file_savings.png")
	require.Contains(t, html, "charts/total_donut.png")
	require.Contains(t, html, "PSNR (dB)", "metrics columns appear when any row has them")
	require.Contains(t, html, "38.5400")
}

func TestWriteHTML_NoMetrics(t *testing.T) {
	results := []batch.Result{
		{Filename: "a.jpg", Status: batch.StatusOK, OriginalBytes: 100, OptimizedBytes: 90, ReductionPct: 10},
	}

	var buf bytes.Buffer
	err := WriteHTML(&buf, Params{InputDir: "in", OutputDir: "out"}, sampleSummary(results), results)
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "PSNR")
}

func TestRenderSavingsChart(t *testing.T) {
	data, err := RenderSavingsChart(sampleResults(), 800, 400)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "chart output should be a PNG")
}

func TestRenderSavingsChart_Empty(t *testing.T) {
	data, err := RenderSavingsChart(nil, 800, 400)
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestRenderTotalsChart(t *testing.T) {
	results := sampleResults()

	data, err := RenderTotalsChart(sampleSummary(results), 400, 400)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestWrite(t *testing.T) {
	outDir := t.TempDir()
	results := sampleResults()

	paths, err := Write(Params{
		InputDir:  "./in",
		OutputDir: outDir,
		Prefix:    "run",
	}, sampleSummary(results), results)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(outDir, "run.csv"), paths.CSV)
	require.Equal(t, filepath.Join(outDir, "run.html"), paths.HTML)

	for _, p := range []string{paths.CSV, paths.HTML, paths.SavingsChart, paths.TotalsChart} {
		info, err := os.Stat(p)
		require.NoError(t, err, "artifact %s", p)
		require.NotZero(t, info.Size(), "artifact %s is empty", p)
	}
}

func TestWrite_DefaultPrefix(t *testing.T) {
	outDir := t.TempDir()
	results := sampleResults()

	paths, err := Write(Params{OutputDir: outDir}, sampleSummary(results), results)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "report.csv"), paths.CSV)
}
