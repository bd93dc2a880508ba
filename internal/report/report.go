// Package report turns batch results into the CSV, chart, and HTML
// artifacts written next to the optimized files.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imgpress/imgpress/internal/batch"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// Params configures a report run.
type Params struct {
	InputDir  string
	OutputDir string
	Prefix    string
}

// Paths lists the artifacts a report run produced.
type Paths struct {
	CSV          string
	HTML         string
	SavingsChart string
	TotalsChart  string
}

// Write produces all report artifacts into the output directory.
func Write(p Params, summary batch.Summary, results []batch.Result) (Paths, error) {
	prefix := p.Prefix
	if prefix == "" {
		prefix = "report"
	}

	paths := Paths{
		CSV:          filepath.Join(p.OutputDir, prefix+".csv"),
		HTML:         filepath.Join(p.OutputDir, prefix+".html"),
		SavingsChart: filepath.Join(p.OutputDir, "charts", "per_file_savings.png"),
		TotalsChart:  filepath.Join(p.OutputDir, "charts", "total_donut.png"),
	}

	if err := os.MkdirAll(filepath.Join(p.OutputDir, "charts"), 0o755); err != nil {
		return Paths{}, fmt.Errorf("create charts directory: %w", err)
	}

	csvFile, err := os.Create(paths.CSV)
	if err != nil {
		return Paths{}, fmt.Errorf("create csv report: %w", err)
	}
	if err := WriteCSV(csvFile, results); err != nil {
		_ = csvFile.Close()
		return Paths{}, fmt.Errorf("write csv report: %w", err)
	}
	if err := csvFile.Close(); err != nil {
		return Paths{}, err
	}

	savings, err := RenderSavingsChart(results, chartWidth, chartHeight)
	if err != nil {
		return Paths{}, err
	}
	if err := os.WriteFile(paths.SavingsChart, savings, 0o644); err != nil {
		return Paths{}, fmt.Errorf("write savings chart: %w", err)
	}

	totals, err := RenderTotalsChart(summary, chartHeight, chartHeight)
	if err != nil {
		return Paths{}, err
	}
	if err := os.WriteFile(paths.TotalsChart, totals, 0o644); err != nil {
		return Paths{}, fmt.Errorf("write totals chart: %w", err)
	}

	htmlFile, err := os.Create(paths.HTML)
	if err != nil {
		return Paths{}, fmt.Errorf("create html report: %w", err)
	}
	if err := WriteHTML(htmlFile, p, summary, results); err != nil {
		_ = htmlFile.Close()
		return Paths{}, fmt.Errorf("write html report: %w", err)
	}
	if err := htmlFile.Close(); err != nil {
		return Paths{}, err
	}

	return paths, nil
}
