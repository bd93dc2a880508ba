package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/imgpress/imgpress/internal/batch"
	"github.com/imgpress/imgpress/internal/config"
	"github.com/imgpress/imgpress/internal/output"
	"github.com/imgpress/imgpress/internal/processor"
	"github.com/imgpress/imgpress/internal/report"
	"github.com/imgpress/imgpress/internal/version"
)

var (
	flagQuality      int
	flagResize       string
	flagThreads      int
	flagTargetFormat string
	flagReportPrefix string
	flagPreserveMeta bool
	flagMetrics      bool
	flagWatermark    string
	flagPreset       string
	flagOpen         bool
	flagQuiet        bool
	flagJSON         bool
	flagLogLevel     string

	cfg     *config.Config
	printer *output.Printer
)

var targetFormats = map[string]bool{
	"original": true,
	"jpeg":     true,
	"jpg":      true,
	"png":      true,
	"webp":     true,
	"avif":     true,
}

var rootCmd = &cobra.Command{
	Use:   "imgpress INPUT_DIR OUTPUT_DIR",
	Short: "imgpress - batch image optimization with CSV/HTML reports",
	Long: `imgpress re-encodes every image in a directory and reports the results.

Images can be resized, converted between JPEG, PNG, WebP, and AVIF, stamped
with a watermark, and measured for quality loss (PSNR/SSIM). A CSV report,
an HTML report, and PNG charts land next to the optimized files.

Examples:
  imgpress ./photos ./optimized
  imgpress ./photos ./optimized -q 70 --resize 1920x --target-format webp
  imgpress ./photos ./optimized --preset web --metrics --open`,
	Version: version.Full(),
	Args:    cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		printer = output.New(
			output.WithJSON(flagJSON),
			output.WithQuiet(flagQuiet),
		)
		return nil
	},
	RunE:          runOptimize,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().IntVarP(&flagQuality, "quality", "q", 0, "Encode quality (1-100)")
	rootCmd.Flags().StringVar(&flagResize, "resize", "", "Bounding box WxH, e.g. 1920x1080 or 1920x")
	rootCmd.Flags().IntVarP(&flagThreads, "threads", "t", 0, "Number of parallel workers")
	rootCmd.Flags().StringVar(&flagTargetFormat, "target-format", "", "Output format: jpeg, png, webp, avif, original")
	rootCmd.Flags().StringVar(&flagReportPrefix, "report-prefix", "", "Basename for report files")
	rootCmd.Flags().BoolVar(&flagPreserveMeta, "preserve-metadata", false, "Keep EXIF metadata on JPEG outputs")
	rootCmd.Flags().BoolVar(&flagMetrics, "metrics", false, "Compute PSNR/SSIM per file")
	rootCmd.Flags().StringVar(&flagWatermark, "watermark", "", "Watermark text to stamp onto outputs")
	rootCmd.Flags().StringVarP(&flagPreset, "preset", "p", "", "Named preset from the config file")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "Open the HTML report when done")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Suppress non-error output")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Output results as JSON (for scripting)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.SetVersionTemplate("imgpress version {{.Version}}\n")
}

type runReport struct {
	Summary struct {
		RunID          string  `json:"run_id"`
		TotalFiles     int     `json:"total_files"`
		Processed      int     `json:"processed"`
		Failed         int     `json:"failed"`
		OriginalBytes  int64   `json:"original_bytes"`
		OptimizedBytes int64   `json:"optimized_bytes"`
		SavedBytes     int64   `json:"saved_bytes"`
		SavedPct       float64 `json:"saved_pct"`
		ElapsedMS      int64   `json:"elapsed_ms"`
	} `json:"summary"`
	Files []fileReport `json:"files"`
	CSV   string       `json:"csv"`
	HTML  string       `json:"html"`
}

type fileReport struct {
	Filename       string   `json:"filename"`
	Status         string   `json:"status"`
	Error          string   `json:"error,omitempty"`
	OriginalBytes  int64    `json:"original_bytes"`
	OptimizedBytes int64    `json:"optimized_bytes"`
	ReductionPct   float64  `json:"reduction_pct"`
	PSNR           *float64 `json:"psnr_db,omitempty"`
	SSIM           *float64 `json:"ssim,omitempty"`
	OutputPath     string   `json:"output_path,omitempty"`
}

func runOptimize(cmd *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]

	opts, threads, err := resolveOptions()
	if err != nil {
		return err
	}

	info, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	sources, totalSize, err := batch.Scan(inputDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no supported image files in %s", inputDir)
	}

	printer.Info("Analyzing %s: %d files, total %s", inputDir, len(sources), humanize.IBytes(uint64(totalSize)))

	logger := newLogger()
	engine := batch.NewEngine(batch.EngineConfig{
		Options: opts,
		Threads: threads,
		Metrics: flagMetrics,
		Logger:  logger,
	})

	progress := output.NewProgress(len(sources), "Optimizing",
		output.ProgressWithQuiet(flagQuiet || flagJSON))
	engine.OnProgress = progress.Increment

	ctx, cancel := signalContext()
	defer cancel()

	started := time.Now()
	results := engine.Run(ctx, sources, outputDir)
	progress.Finish()

	summary := batch.Summarize(uuid.NewString(), results, time.Since(started))

	paths, err := report.Write(report.Params{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Prefix:    reportPrefix(),
	}, summary, results)
	if err != nil {
		return err
	}

	printResults(summary, results, paths)

	if flagOpen {
		if err := browser.OpenFile(paths.HTML); err != nil {
			printer.Warn("Could not open report: %v", err)
		}
	}

	return nil
}

// resolveOptions merges config-file defaults, the selected preset, and
// explicit flags, in that order of increasing precedence.
func resolveOptions() (processor.Options, int, error) {
	quality := cfg.Quality
	format := cfg.TargetFormat
	threads := cfg.Threads
	resize := ""
	preserve := flagPreserveMeta
	watermark := flagWatermark

	if flagPreset != "" {
		preset, ok := cfg.GetPreset(flagPreset)
		if !ok {
			return processor.Options{}, 0, fmt.Errorf("unknown preset: %s", flagPreset)
		}
		if preset.Quality > 0 {
			quality = preset.Quality
		}
		if preset.TargetFormat != "" {
			format = preset.TargetFormat
		}
		if preset.Resize != "" {
			resize = preset.Resize
		}
		if preset.PreserveMetadata {
			preserve = true
		}
		if preset.Watermark != "" && watermark == "" {
			watermark = preset.Watermark
		}
	}

	if flagQuality != 0 {
		quality = flagQuality
	}
	if flagTargetFormat != "" {
		format = flagTargetFormat
	}
	if flagResize != "" {
		resize = flagResize
	}
	if flagThreads != 0 {
		threads = flagThreads
	}

	if quality < 1 || quality > 100 {
		return processor.Options{}, 0, fmt.Errorf("quality must be 1-100, got %d", quality)
	}
	if threads < 1 {
		return processor.Options{}, 0, fmt.Errorf("threads must be at least 1, got %d", threads)
	}

	format = strings.ToLower(format)
	if !targetFormats[format] {
		return processor.Options{}, 0, fmt.Errorf("unsupported target format %q", format)
	}
	if format == "original" {
		format = ""
	}

	maxW, maxH, err := parseResize(resize)
	if err != nil {
		return processor.Options{}, 0, err
	}

	return processor.Options{
		Quality:          quality,
		MaxWidth:         maxW,
		MaxHeight:        maxH,
		Format:           format,
		PreserveMetadata: preserve,
		Watermark:        watermark,
	}, threads, nil
}

func reportPrefix() string {
	if flagReportPrefix != "" {
		return flagReportPrefix
	}
	return cfg.ReportPrefix
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(flagLogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	if flagQuiet || flagJSON {
		level = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func printResults(summary batch.Summary, results []batch.Result, paths report.Paths) {
	if flagJSON {
		out := runReport{CSV: paths.CSV, HTML: paths.HTML}
		out.Summary.RunID = summary.RunID
		out.Summary.TotalFiles = summary.TotalFiles
		out.Summary.Processed = summary.Processed
		out.Summary.Failed = summary.Failed
		out.Summary.OriginalBytes = summary.OriginalBytes
		out.Summary.OptimizedBytes = summary.OptimizedBytes
		out.Summary.SavedBytes = summary.SavedBytes()
		out.Summary.SavedPct = summary.SavedPct()
		out.Summary.ElapsedMS = summary.Elapsed.Milliseconds()

		for _, r := range results {
			fr := fileReport{
				Filename:       r.Filename,
				Status:         r.Status,
				OriginalBytes:  r.OriginalBytes,
				OptimizedBytes: r.OptimizedBytes,
				ReductionPct:   r.ReductionPct,
				PSNR:           r.PSNR,
				SSIM:           r.SSIM,
				OutputPath:     r.OutputPath,
			}
			if r.Err != nil {
				fr.Error = r.Err.Error()
			}
			out.Files = append(out.Files, fr)
		}
		_ = printer.JSON(out)
		return
	}

	for _, r := range results {
		if r.Status == batch.StatusError {
			printer.FileFailed(r.Filename, r.Err)
		}
	}

	if !printer.IsQuiet() {
		withMetrics := hasMetrics(results)
		printer.Header("Files")
		table := output.NewTable(tableHeaders(withMetrics), flagQuiet)
		for _, r := range results {
			table.Append(tableRow(r, withMetrics))
		}
		table.Render()
	}

	printer.Header("Summary")
	printer.KeyValue("Original total", humanize.IBytes(uint64(summary.OriginalBytes)))
	printer.KeyValue("Optimized total", humanize.IBytes(uint64(summary.OptimizedBytes)))
	printer.KeyValue("Saved", fmt.Sprintf("%s (%.2f%%)", savedHuman(summary), summary.SavedPct()))
	printer.KeyValue("Elapsed", summary.Elapsed.Round(time.Millisecond).String())
	printer.KeyValue("CSV", paths.CSV)
	printer.KeyValue("HTML", paths.HTML)
	printer.Summary(summary.Processed, summary.Failed)
}

func tableHeaders(withMetrics bool) []string {
	headers := []string{"FILE", "BEFORE", "AFTER", "SAVED"}
	if withMetrics {
		headers = append(headers, "PSNR", "SSIM")
	}
	return append(headers, "STATUS")
}

func tableRow(r batch.Result, withMetrics bool) []string {
	row := []string{
		r.Filename,
		humanize.IBytes(uint64(r.OriginalBytes)),
		humanize.IBytes(uint64(r.OptimizedBytes)),
		fmt.Sprintf("%.2f%%", r.ReductionPct),
	}
	if withMetrics {
		row = append(row, metricCell(r.PSNR), metricCell(r.SSIM))
	}
	return append(row, r.Status)
}

func metricCell(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func hasMetrics(results []batch.Result) bool {
	for _, r := range results {
		if r.PSNR != nil {
			return true
		}
	}
	return false
}

func savedHuman(summary batch.Summary) string {
	saved := summary.SavedBytes()
	if saved < 0 {
		return "-" + humanize.IBytes(uint64(-saved))
	}
	return humanize.IBytes(uint64(saved))
}
