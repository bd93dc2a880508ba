package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/imgpress/imgpress/internal/batch"
)

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Image Optimization Report</title>
<style>
body { font-family: sans-serif; margin: 32px; background: #2e3440; color: #d8dee9; }
h1, h2 { color: #88c0d0; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #4c566a; padding: 6px; }
th { background: #3b4252; text-align: left; }
td.num { text-align: right; }
tr.error td { color: #bf616a; }
img { max-width: 100%; }
.meta { color: #81a1c1; }
</style>
</head>
<body>
<h1>Image Optimization Report</h1>
<p class="meta">Generated: {{.GeneratedAt}} &middot; Run {{.RunID}}</p>
<p><b>Input:</b> {{.InputDir}}<br><b>Output:</b> {{.OutputDir}}</p>
<p><b>Files:</b> {{.TotalFiles}} ({{.Processed}} processed, {{.Failed}} failed)<br>
<b>Total saved:</b> {{.SavedHuman}} ({{printf "%.2f" .SavedPct}}%)<br>
<b>Elapsed:</b> {{.Elapsed}}</p>
<h2>Charts</h2>
<p><img src="{{.SavingsChart}}" alt="Savings per file"></p>
<p><img src="{{.TotalsChart}}" alt="Total size before vs after"></p>
<h2>Details</h2>
<table>
<tr><th>File</th><th>Before</th><th>After</th><th>Saved</th>{{if .HasMetrics}}<th>PSNR (dB)</th><th>SSIM</th>{{end}}<th>Status</th></tr>
{{range .Rows}}<tr{{if .IsError}} class="error"{{end}}>
<td>{{.Filename}}</td>
<td class="num">{{.Before}}</td>
<td class="num">{{.After}}</td>
<td class="num">{{.Saved}}</td>
{{if $.HasMetrics}}<td class="num">{{.PSNR}}</td><td class="num">{{.SSIM}}</td>{{end}}
<td>{{.Status}}</td>
</tr>
{{end}}</table>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

type htmlRow struct {
	Filename string
	Before   string
	After    string
	Saved    string
	PSNR     string
	SSIM     string
	Status   string
	IsError  bool
}

type htmlData struct {
	GeneratedAt  string
	RunID        string
	InputDir     string
	OutputDir    string
	TotalFiles   int
	Processed    int
	Failed       int
	SavedHuman   string
	SavedPct     float64
	Elapsed      string
	SavingsChart string
	TotalsChart  string
	HasMetrics   bool
	Rows         []htmlRow
}

// WriteHTML renders the report page. Chart paths are relative to the HTML
// file so the report stays portable alongside the output directory.
func WriteHTML(w io.Writer, p Params, summary batch.Summary, results []batch.Result) error {
	data := htmlData{
		GeneratedAt:  time.Now().Format("2006-01-02 15:04"),
		RunID:        summary.RunID,
		InputDir:     p.InputDir,
		OutputDir:    p.OutputDir,
		TotalFiles:   summary.TotalFiles,
		Processed:    summary.Processed,
		Failed:       summary.Failed,
		SavedHuman:   humanBytes(summary.SavedBytes()),
		SavedPct:     summary.SavedPct(),
		Elapsed:      summary.Elapsed.Round(time.Millisecond).String(),
		SavingsChart: "charts/per_file_savings.png",
		TotalsChart:  "charts/total_donut.png",
	}

	for _, r := range results {
		if r.PSNR != nil {
			data.HasMetrics = true
			break
		}
	}

	for _, r := range results {
		row := htmlRow{
			Filename: r.Filename,
			Before:   humanize.IBytes(uint64(r.OriginalBytes)),
			After:    humanize.IBytes(uint64(r.OptimizedBytes)),
			Saved:    fmt.Sprintf("%.2f%%", r.ReductionPct),
			PSNR:     metricCell(r.PSNR),
			SSIM:     metricCell(r.SSIM),
			Status:   statusCell(r),
			IsError:  r.Status == batch.StatusError,
		}
		data.Rows = append(data.Rows, row)
	}

	return reportTemplate.Execute(w, data)
}

// humanBytes formats a possibly negative byte delta.
func humanBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
