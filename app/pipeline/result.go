package pipeline

import (
	"math"
	"time"

	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/loader"
)

type FileStatus string

const (
	FileSucceeded FileStatus = "success"
	FileFailed    FileStatus = "failed"
	FileSkipped   FileStatus = "skipped"
)

// FileResult is the outcome of one source file.
type FileResult struct {
	File          string              `json:"file"`
	Status        FileStatus          `json:"status"`
	IngestionDate string              `json:"ingestion_date,omitempty"`
	Category      string              `json:"category,omitempty"`
	Checksum      string              `json:"checksum,omitempty"`
	TotalRows     int                 `json:"total_rows"`
	ValidRows     int                 `json:"valid_rows"`
	RejectedRows  int                 `json:"rejected_rows"`
	DuplicateRows int                 `json:"duplicate_rows"`
	VerifiedMedia int                 `json:"verified_media"`
	Sinks         []loader.SinkResult `json:"sinks,omitempty"`
	Warnings      []string            `json:"warnings,omitempty"`
	Error         string              `json:"error,omitempty"`
	AuditLog      string              `json:"audit_log,omitempty"`
	DurationMs    int64               `json:"duration_ms"`

	rejections []catalog.Rejection
	duplicates []catalog.Duplicate
}

// SuccessRate is the share of valid rows as a whole percentage.
func (r *FileResult) SuccessRate() int {
	if r.TotalRows == 0 {
		return 0
	}
	return int(math.Round(float64(r.ValidRows) * 100 / float64(r.TotalRows)))
}

// LoadErrors flattens per-record sink write failures.
func (r *FileResult) LoadErrors() []string {
	var errs []string
	for _, s := range r.Sinks {
		for _, e := range s.Errors {
			errs = append(errs, s.Sink+": "+e)
		}
	}
	return errs
}

// Summary aggregates a whole run.
type Summary struct {
	RunID              string        `json:"run_id"`
	StartedAt          time.Time     `json:"started_at"`
	TotalFiles         int           `json:"total_files"`
	SuccessfulFiles    int           `json:"successful_files"`
	FailedFiles        int           `json:"failed_files"`
	SkippedFiles       int           `json:"skipped_files"`
	TotalRowsProcessed int           `json:"total_rows_processed"`
	TotalValidRows     int           `json:"total_valid_rows"`
	TotalRejectedRows  int           `json:"total_rejected_rows"`
	TotalDuplicateRows int           `json:"total_duplicate_rows"`
	TotalDuration      time.Duration `json:"-"`
	TotalDurationMs    int64         `json:"total_duration_ms"`
	Files              []FileResult  `json:"files"`
}

func (s *Summary) add(r FileResult) {
	s.TotalFiles++
	switch r.Status {
	case FileSucceeded:
		s.SuccessfulFiles++
	case FileFailed:
		s.FailedFiles++
	case FileSkipped:
		s.SkippedFiles++
	}
	s.TotalRowsProcessed += r.TotalRows
	s.TotalValidRows += r.ValidRows
	s.TotalRejectedRows += r.RejectedRows
	s.TotalDuplicateRows += r.DuplicateRows
	s.Files = append(s.Files, r)
}
