package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/lysyi3m/catalog-etl/app/pipeline"
)

var (
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	bold   = color.New(color.Bold)
	dim    = color.New(color.Faint)
)

// Print writes a per-file table and run totals to w.
func Print(w io.Writer, s *pipeline.Summary) {
	bold.Fprintf(w, "Run %s\n", s.RunID)

	for _, f := range s.Files {
		status := statusColor(f.Status).Sprintf("%-7s", f.Status)
		fmt.Fprintf(w, "  %s %s", status, f.File)

		switch f.Status {
		case pipeline.FileSucceeded:
			fmt.Fprintf(w, "  rows=%d valid=%d rejected=%d duplicates=%d (%d%%)",
				f.TotalRows, f.ValidRows, f.RejectedRows, f.DuplicateRows, f.SuccessRate())
		case pipeline.FileFailed:
			red.Fprintf(w, "  %s", f.Error)
		case pipeline.FileSkipped:
			dim.Fprint(w, "  already processed")
		}
		fmt.Fprintln(w)

		if errs := f.LoadErrors(); len(errs) > 0 {
			yellow.Fprintf(w, "          %d record(s) failed to load, see %s\n", len(errs), f.AuditLog)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files: %d total, %s, %s, %d skipped\n",
		s.TotalFiles,
		green.Sprintf("%d succeeded", s.SuccessfulFiles),
		failedColor(s.FailedFiles).Sprintf("%d failed", s.FailedFiles),
		s.SkippedFiles)
	fmt.Fprintf(w, "Rows:  %d processed, %d valid, %d rejected, %d duplicates\n",
		s.TotalRowsProcessed, s.TotalValidRows, s.TotalRejectedRows, s.TotalDuplicateRows)
	fmt.Fprintf(w, "Took:  %s\n", s.TotalDuration.Round(time.Millisecond))
}

func statusColor(status pipeline.FileStatus) *color.Color {
	switch status {
	case pipeline.FileSucceeded:
		return green
	case pipeline.FileFailed:
		return red
	default:
		return dim
	}
}

func failedColor(n int) *color.Color {
	if n > 0 {
		return red
	}
	return green
}
