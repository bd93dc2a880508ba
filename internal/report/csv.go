package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/imgpress/imgpress/internal/batch"
)

var csvHeader = []string{
	"filename",
	"status",
	"original_bytes",
	"optimized_bytes",
	"reduction_pct",
	"psnr_db",
	"ssim",
	"output_path",
}

// WriteCSV writes one row per result. Metric columns stay empty when metrics
// were not computed for the row.
func WriteCSV(w io.Writer, results []batch.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Filename,
			statusCell(r),
			strconv.FormatInt(r.OriginalBytes, 10),
			strconv.FormatInt(r.OptimizedBytes, 10),
			fmt.Sprintf("%.2f", r.ReductionPct),
			metricCell(r.PSNR),
			metricCell(r.SSIM),
			r.OutputPath,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func statusCell(r batch.Result) string {
	if r.Status == batch.StatusError && r.Err != nil {
		return fmt.Sprintf("error: %v", r.Err)
	}
	return r.Status
}

func metricCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}
