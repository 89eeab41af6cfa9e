package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/database"
	"github.com/lysyi3m/catalog-etl/app/loader"
	"github.com/lysyi3m/catalog-etl/app/metrics"
	"github.com/lysyi3m/catalog-etl/app/sheet"
)

type MediaVerifier interface {
	Run(ctx context.Context, records []catalog.Record) []catalog.Record
}

// SinkOpener connects every sink for one run.
type SinkOpener func(ctx context.Context) ([]loader.Sink, error)

type Config struct {
	RunID     string
	InputDir  string
	OutputDir string
	LogsDir   string
	Files     []string // explicit list, bypasses discovery
	Force     bool     // reprocess files already in the ledger
}

type Deps struct {
	OpenSinks    SinkOpener
	Reader       sheet.Reader
	Parser       *catalog.FilenameParser
	Validator    *catalog.Validator
	Deduplicator *catalog.Deduplicator
	Enricher     *catalog.Enricher
	Verifier     MediaVerifier
	Files        database.FileRepository // optional
	Runs         database.RunRepository  // optional
}

// Runner drives one pipeline run over a set of source files.
type Runner struct {
	cfg   Config
	deps  Deps
	state atomic.Int32
}

func NewRunner(cfg Config, deps Deps) *Runner {
	if deps.Parser == nil {
		deps.Parser = catalog.NewFilenameParser(nil)
	}
	if deps.Validator == nil {
		deps.Validator = catalog.NewValidator()
	}
	if deps.Deduplicator == nil {
		deps.Deduplicator = catalog.NewDeduplicator()
	}
	if deps.Enricher == nil {
		deps.Enricher = catalog.NewEnricher()
	}
	if deps.Reader == nil {
		deps.Reader = sheet.NewFileReader()
	}
	return &Runner{cfg: cfg, deps: deps}
}

// State is safe to call while Run is in progress.
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) RunID() string {
	return r.cfg.RunID
}

func (r *Runner) transition(to State) {
	from := State(r.state.Swap(int32(to)))
	slog.Debug("Pipeline state changed", "run_id", r.cfg.RunID, "from", from, "to", to)
}

// Run processes every file and returns the run summary. Only sink
// initialization and discovery failures abort the run.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: r.cfg.RunID, StartedAt: start.UTC()}

	r.transition(StateInitializing)
	sinks, err := r.deps.OpenSinks(ctx)
	if err != nil {
		r.transition(StateFailed)
		return nil, fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	load := loader.New(sinks...)
	defer func() {
		if err := load.Close(); err != nil {
			slog.Error("Failed to close sinks", "run_id", r.cfg.RunID, "error", err)
		}
	}()

	r.transition(StateDiscovering)
	files := resolveFiles(r.cfg.InputDir, r.cfg.Files)
	if len(r.cfg.Files) == 0 {
		if files, err = Discover(r.cfg.InputDir); err != nil {
			r.transition(StateFailed)
			return nil, err
		}
	}
	slog.Info("Source files discovered", "run_id", r.cfg.RunID, "count", len(files), "input_dir", r.cfg.InputDir)

	r.startRun(start)

	for _, path := range files {
		r.transition(StateProcessingFile)
		result := r.processFile(ctx, load, path)
		summary.add(result)
	}

	r.transition(StateSummarizing)
	summary.TotalDuration = time.Since(start)
	summary.TotalDurationMs = summary.TotalDuration.Milliseconds()

	if _, err := WriteSummary(r.cfg.OutputDir, summary); err != nil {
		slog.Error("Failed to write run summary", "run_id", r.cfg.RunID, "error", err)
	}
	r.finishRun(summary)
	metrics.LastRunTimestamp.SetToCurrentTime()

	slog.Info("Run completed",
		"run_id", r.cfg.RunID,
		"files", summary.TotalFiles,
		"succeeded", summary.SuccessfulFiles,
		"failed", summary.FailedFiles,
		"skipped", summary.SkippedFiles,
		"rows", summary.TotalRowsProcessed,
		"valid", summary.TotalValidRows,
		"rejected", summary.TotalRejectedRows,
		"duration", summary.TotalDuration)

	r.transition(StateDone)
	return summary, nil
}

func (r *Runner) processFile(ctx context.Context, load *loader.Loader, path string) FileResult {
	start := time.Now()
	result := FileResult{File: filepath.Base(path)}

	err := r.runStages(ctx, load, path, &result)
	switch {
	case result.Status == FileSkipped:
	case err != nil:
		result.Status = FileFailed
		result.Error = err.Error()
	default:
		result.Status = FileSucceeded
	}
	result.DurationMs = time.Since(start).Milliseconds()

	if result.Status != FileSkipped {
		auditPath, err := writeAudit(r.cfg.LogsDir, r.cfg.RunID, &result)
		if err != nil && result.Status == FileSucceeded {
			result.Status = FileFailed
			result.Error = err.Error()
		}
		result.AuditLog = auditPath
	}

	// A file with per-record load errors is not recorded as processed.
	if result.Status == FileSucceeded && len(result.LoadErrors()) == 0 {
		r.markProcessed(result)
	}

	metrics.FilesProcessed.WithLabelValues(string(result.Status)).Inc()
	metrics.FileDuration.Observe(time.Since(start).Seconds())
	metrics.RowsProcessed.WithLabelValues("valid").Add(float64(result.ValidRows))
	metrics.RowsProcessed.WithLabelValues("rejected").Add(float64(result.RejectedRows))
	metrics.RowsProcessed.WithLabelValues("duplicate").Add(float64(result.DuplicateRows))

	switch result.Status {
	case FileFailed:
		slog.Error("File failed", "run_id", r.cfg.RunID, "file", result.File, "error", result.Error)
	case FileSkipped:
		slog.Info("File skipped, already processed", "run_id", r.cfg.RunID, "file", result.File)
	default:
		slog.Info("File processed",
			"run_id", r.cfg.RunID,
			"file", result.File,
			"total", result.TotalRows,
			"valid", result.ValidRows,
			"rejected", result.RejectedRows,
			"duplicates", result.DuplicateRows,
			"verified_media", result.VerifiedMedia,
			"duration", time.Since(start))
	}

	return result
}

// runStages executes the per-file stages in order, stopping at the first error.
func (r *Runner) runStages(ctx context.Context, load *loader.Loader, path string, result *FileResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := r.deps.Parser.Run(path)
	if err != nil {
		return err
	}
	result.IngestionDate = info.IngestionDate.Format("2006-01-02")
	result.Category = info.CategoryName

	if r.deps.Files != nil {
		if result.Checksum, err = fileChecksum(path); err != nil {
			return err
		}
		if !r.cfg.Force && r.alreadyProcessed(result) {
			result.Status = FileSkipped
			return nil
		}
	}

	read, err := r.deps.Reader.Read(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	result.TotalRows = len(read.Rows)
	result.Warnings = read.Warnings

	valid, rejected := r.deps.Validator.RunAll(read.Rows, info)
	result.RejectedRows = len(rejected)
	result.rejections = rejected
	for _, rej := range rejected {
		slog.Warn("Row rejected",
			"file", result.File,
			"line", rej.Line,
			"reasons", rej.Reasons,
			"raw", rej.Raw.Payload())
	}

	unique, duplicates := r.deps.Deduplicator.Run(valid)
	result.ValidRows = len(valid)
	result.DuplicateRows = len(duplicates)
	result.duplicates = duplicates

	unique = r.deps.Enricher.Run(unique)

	if r.deps.Verifier != nil {
		unique = r.deps.Verifier.Run(ctx, unique)
	}
	for _, rec := range unique {
		if rec.MediaVerified {
			result.VerifiedMedia++
		}
	}

	sinkResults, err := load.Run(ctx, unique)
	result.Sinks = sinkResults
	if err != nil {
		return err
	}

	return nil
}

func (r *Runner) alreadyProcessed(result *FileResult) bool {
	prev, err := r.deps.Files.GetProcessedFile(result.File)
	if err != nil {
		slog.Warn("Failed to check file ledger", "file", result.File, "error", err)
		return false
	}
	return prev != nil && prev.Checksum == result.Checksum
}

func (r *Runner) markProcessed(result FileResult) {
	if r.deps.Files == nil {
		return
	}
	err := r.deps.Files.MarkProcessed(database.ProcessedFile{
		FileName:      result.File,
		Checksum:      result.Checksum,
		RunID:         r.cfg.RunID,
		IngestionDate: result.IngestionDate,
		Category:      result.Category,
		TotalRows:     result.TotalRows,
		ValidRows:     result.ValidRows,
		RejectedRows:  result.RejectedRows,
		DuplicateRows: result.DuplicateRows,
		ProcessedAt:   time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("Failed to record processed file", "file", result.File, "error", err)
	}
}

func (r *Runner) startRun(start time.Time) {
	if r.deps.Runs == nil {
		return
	}
	if err := r.deps.Runs.StartRun(database.Run{ID: r.cfg.RunID, StartedAt: start}); err != nil {
		slog.Warn("Failed to record run start", "run_id", r.cfg.RunID, "error", err)
	}
}

func (r *Runner) finishRun(s *Summary) {
	if r.deps.Runs == nil {
		return
	}
	finished := time.Now().UTC()
	status := database.RunStatusCompleted
	if s.FailedFiles > 0 {
		status = database.RunStatusFailed
	}
	err := r.deps.Runs.FinishRun(database.Run{
		ID:              s.RunID,
		FinishedAt:      &finished,
		Status:          status,
		TotalFiles:      s.TotalFiles,
		SuccessfulFiles: s.SuccessfulFiles,
		FailedFiles:     s.FailedFiles,
		SkippedFiles:    s.SkippedFiles,
		TotalRows:       s.TotalRowsProcessed,
		ValidRows:       s.TotalValidRows,
		RejectedRows:    s.TotalRejectedRows,
		DuplicateRows:   s.TotalDuplicateRows,
		DurationMs:      s.TotalDurationMs,
	})
	if err != nil {
		slog.Warn("Failed to record run result", "run_id", s.RunID, "error", err)
	}
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to checksum source file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
