package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLRunRepository handles database operations for pipeline runs
type SQLRunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *SQLRunRepository {
	return &SQLRunRepository{db: db}
}

func (r *SQLRunRepository) StartRun(run Run) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (id, started_at, status)
		VALUES (?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), RunStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

func (r *SQLRunRepository) FinishRun(run Run) error {
	var finishedAt any
	if run.FinishedAt != nil {
		finishedAt = run.FinishedAt.UTC()
	}

	res, err := r.db.Exec(`
		UPDATE runs
		SET finished_at = ?, status = ?, total_files = ?, successful_files = ?, failed_files = ?,
			skipped_files = ?, total_rows = ?, valid_rows = ?, rejected_rows = ?, duplicate_rows = ?,
			duration_ms = ?
		WHERE id = ?
	`, finishedAt, run.Status, run.TotalFiles, run.SuccessfulFiles, run.FailedFiles,
		run.SkippedFiles, run.TotalRows, run.ValidRows, run.RejectedRows, run.DuplicateRows,
		run.DurationMs, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

func (r *SQLRunRepository) GetRun(id string) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, started_at, finished_at, status, total_files, successful_files, failed_files,
			skipped_files, total_rows, valid_rows, rejected_rows, duplicate_rows, duration_ms
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.StartedAt, &finishedAt, &run.Status, &run.TotalFiles,
		&run.SuccessfulFiles, &run.FailedFiles, &run.SkippedFiles, &run.TotalRows, &run.ValidRows,
		&run.RejectedRows, &run.DuplicateRows, &run.DurationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}
