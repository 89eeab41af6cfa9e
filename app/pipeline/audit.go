package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeAudit writes <dir>/<file name>.audit.log, extension included, and
// returns its path.
func writeAudit(dir, runID string, r *FileResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	path := filepath.Join(dir, r.File+".audit.log")

	if err := os.WriteFile(path, []byte(formatAudit(runID, r)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write audit log: %w", err)
	}
	return path, nil
}

func formatAudit(runID string, r *FileResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "file: %s\n", r.File)
	fmt.Fprintf(&b, "run: %s\n", runID)
	if r.IngestionDate != "" {
		fmt.Fprintf(&b, "ingestion_date: %s\n", r.IngestionDate)
		fmt.Fprintf(&b, "category: %s\n", r.Category)
	}
	fmt.Fprintf(&b, "status: %s\n", r.Status)
	fmt.Fprintf(&b, "total_rows: %d\n", r.TotalRows)
	fmt.Fprintf(&b, "valid_rows: %d\n", r.ValidRows)
	fmt.Fprintf(&b, "rejected_rows: %d\n", r.RejectedRows)
	fmt.Fprintf(&b, "duplicate_rows: %d\n", r.DuplicateRows)
	fmt.Fprintf(&b, "success_rate: %d%%\n", r.SuccessRate())
	fmt.Fprintf(&b, "verified_media: %d\n", r.VerifiedMedia)

	for _, s := range r.Sinks {
		fmt.Fprintf(&b, "sink %s: inserted=%d updated=%d errors=%d\n", s.Sink, s.Inserted, s.Updated, len(s.Errors))
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", r.Error)
	}

	if len(r.rejections) > 0 {
		b.WriteString("\nrejected rows:\n")
		for _, rej := range r.rejections {
			fmt.Fprintf(&b, "line %d: %s\n", rej.Line, strings.Join(rej.Reasons, ", "))
		}
	}

	if len(r.duplicates) > 0 {
		b.WriteString("\nduplicate rows:\n")
		for _, d := range r.duplicates {
			fmt.Fprintf(&b, "line %d: duplicate key %s\n", d.Record.SourceLine, d.Key)
		}
	}

	if errs := r.LoadErrors(); len(errs) > 0 {
		b.WriteString("\nload errors:\n")
		for _, e := range errs {
			b.WriteString(e + "\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\nwarnings:\n")
		for _, w := range r.Warnings {
			b.WriteString(w + "\n")
		}
	}

	return b.String()
}
