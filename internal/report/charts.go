package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/imgpress/imgpress/internal/batch"
)

var (
	colorPrimary   = drawing.ColorFromHex("81A1C1")
	colorSecondary = drawing.ColorFromHex("A3BE8C")
	colorBg        = drawing.ColorFromHex("2E3440")
	colorGrid      = drawing.ColorFromHex("3B4252")
	colorText      = drawing.ColorFromHex("D8DEE9")
)

// RenderSavingsChart draws per-file size reduction as a bar chart. Negative
// reductions (files that grew) are clamped to zero, matching how the rest of
// the report presents savings.
func RenderSavingsChart(results []batch.Result, width, height int) ([]byte, error) {
	if len(results) == 0 {
		return renderEmptyChart(width, height, "No files processed")
	}

	bars := make([]chart.Value, 0, len(results))
	for _, r := range results {
		bars = append(bars, chart.Value{
			Label: r.Filename,
			Value: math.Max(0, r.ReductionPct),
			Style: chart.Style{
				FillColor:   colorPrimary,
				StrokeColor: colorPrimary,
			},
		})
	}

	graph := chart.BarChart{
		Title:  "Savings per file (%)",
		Width:  width,
		Height: height,
		TitleStyle: chart.Style{
			FontColor: colorText,
			FontSize:  12,
		},
		Background: chart.Style{
			FillColor: colorBg,
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Canvas: chart.Style{
			FillColor: colorBg,
		},
		XAxis: chart.Style{
			StrokeColor: colorGrid,
			FontColor:   colorText,
			FontSize:    8,
			TextRotationDegrees: 90,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				StrokeColor: colorGrid,
				FontColor:   colorText,
				FontSize:    10,
			},
			GridMajorStyle: chart.Style{
				StrokeColor: colorGrid,
				StrokeWidth: 1,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		BarWidth: barWidth(width, len(bars)),
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render savings chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTotalsChart draws total size before vs after as a donut.
func RenderTotalsChart(summary batch.Summary, width, height int) ([]byte, error) {
	if summary.OriginalBytes == 0 {
		return renderEmptyChart(width, height, "No data")
	}

	donut := chart.DonutChart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: colorBg,
		},
		Canvas: chart.Style{
			FillColor: colorBg,
		},
		Values: []chart.Value{
			{
				Label: fmt.Sprintf("Before (%.1f%%)", 100.0),
				Value: float64(summary.OriginalBytes),
				Style: chart.Style{
					FillColor: colorPrimary,
					FontColor: colorText,
					FontSize:  10,
				},
			},
			{
				Label: fmt.Sprintf("After (%.1f%%)", afterPct(summary)),
				Value: float64(summary.OptimizedBytes),
				Style: chart.Style{
					FillColor: colorSecondary,
					FontColor: colorText,
					FontSize:  10,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render totals chart: %w", err)
	}
	return buf.Bytes(), nil
}

func afterPct(summary batch.Summary) float64 {
	return float64(summary.OptimizedBytes) / float64(summary.OriginalBytes) * 100
}

func barWidth(chartWidth, bars int) int {
	w := chartWidth / (bars + 1)
	if w < 4 {
		return 4
	}
	if w > 60 {
		return 60
	}
	return w
}

func renderEmptyChart(width, height int, message string) ([]byte, error) {
	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: colorBg,
		},
		Canvas: chart.Style{
			FillColor: colorBg,
		},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []chart.Series{
			chart.AnnotationSeries{
				Annotations: []chart.Value2{
					{XValue: 50, YValue: 50, Label: message},
				},
				Style: chart.Style{
					FontColor: colorText,
					FontSize:  14,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render empty chart: %w", err)
	}
	return buf.Bytes(), nil
}
