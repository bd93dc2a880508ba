package batch

import "time"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Result is the per-file outcome record consumed by the report writers.
type Result struct {
	Filename       string
	Status         string
	OriginalBytes  int64
	OptimizedBytes int64
	ReductionPct   float64
	OutputPath     string

	// PSNR and SSIM are set only when metrics are enabled and the file
	// processed successfully.
	PSNR *float64
	SSIM *float64

	Err error
}

// ErrorResult builds the record for a file that failed to process. The
// optimized size mirrors the original so totals stay meaningful.
func ErrorResult(name string, originalBytes int64, err error) Result {
	return Result{
		Filename:       name,
		Status:         StatusError,
		OriginalBytes:  originalBytes,
		OptimizedBytes: originalBytes,
		Err:            err,
	}
}

// Summary aggregates a finished batch.
type Summary struct {
	RunID          string
	TotalFiles     int
	Processed      int
	Failed         int
	OriginalBytes  int64
	OptimizedBytes int64
	Elapsed        time.Duration
}

// SavedBytes is the total size reduction across the batch.
func (s Summary) SavedBytes() int64 {
	return s.OriginalBytes - s.OptimizedBytes
}

// SavedPct is the total reduction as a percentage of the original size.
func (s Summary) SavedPct() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return float64(s.SavedBytes()) / float64(s.OriginalBytes) * 100
}

// Summarize computes batch totals from per-file results.
func Summarize(runID string, results []Result, elapsed time.Duration) Summary {
	s := Summary{
		RunID:      runID,
		TotalFiles: len(results),
		Elapsed:    elapsed,
	}
	for _, r := range results {
		s.OriginalBytes += r.OriginalBytes
		s.OptimizedBytes += r.OptimizedBytes
		if r.Status == StatusOK {
			s.Processed++
		} else {
			s.Failed++
		}
	}
	return s
}
