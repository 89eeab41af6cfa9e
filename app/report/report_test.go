package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/lysyi3m/catalog-etl/app/loader"
	"github.com/lysyi3m/catalog-etl/app/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	color.NoColor = true

	s := &pipeline.Summary{
		RunID:              "run-1",
		TotalFiles:         3,
		SuccessfulFiles:    1,
		FailedFiles:        1,
		SkippedFiles:       1,
		TotalRowsProcessed: 3,
		TotalValidRows:     2,
		TotalRejectedRows:  1,
		TotalDuration:      1500 * time.Millisecond,
		Files: []pipeline.FileResult{
			{
				File:         "20250811_fantasy_raw_data.xlsx",
				Status:       pipeline.FileSucceeded,
				TotalRows:    3,
				ValidRows:    2,
				RejectedRows: 1,
				AuditLog:     "logs/20250811_fantasy_raw_data.xlsx.audit.log",
				Sinks: []loader.SinkResult{
					{Sink: "documents", Result: loader.Result{Errors: []string{"2025-08-11/Fantasy/B001: duplicate"}}},
				},
			},
			{File: "bad_raw_data.csv", Status: pipeline.FileFailed, Error: "invalid source filename"},
			{File: "20250810_fantasy_raw_data.xlsx", Status: pipeline.FileSkipped},
		},
	}

	var buf bytes.Buffer
	Print(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "Run run-1")
	assert.Contains(t, out, "success 20250811_fantasy_raw_data.xlsx  rows=3 valid=2 rejected=1 duplicates=0 (67%)")
	assert.Contains(t, out, "1 record(s) failed to load")
	assert.Contains(t, out, "failed  bad_raw_data.csv  invalid source filename")
	assert.Contains(t, out, "already processed")
	assert.Contains(t, out, "Files: 3 total, 1 succeeded, 1 failed, 1 skipped")
	assert.Contains(t, out, "Took:  1.5s")
}
