package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLFileRepository tracks which source files were already loaded
type SQLFileRepository struct {
	db *DB
}

func NewFileRepository(db *DB) *SQLFileRepository {
	return &SQLFileRepository{db: db}
}

// GetProcessedFile returns nil when the file was never recorded.
func (r *SQLFileRepository) GetProcessedFile(fileName string) (*ProcessedFile, error) {
	var f ProcessedFile
	err := r.db.QueryRow(`
		SELECT file_name, checksum, run_id, ingestion_date, category, total_rows, valid_rows,
			rejected_rows, duplicate_rows, processed_at
		FROM processed_files
		WHERE file_name = ?
	`, fileName).Scan(&f.FileName, &f.Checksum, &f.RunID, &f.IngestionDate, &f.Category,
		&f.TotalRows, &f.ValidRows, &f.RejectedRows, &f.DuplicateRows, &f.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get processed file: %w", err)
	}
	return &f, nil
}

// MarkProcessed inserts or replaces the ledger entry for a file.
func (r *SQLFileRepository) MarkProcessed(f ProcessedFile) error {
	_, err := r.db.Exec(`
		INSERT INTO processed_files (file_name, checksum, run_id, ingestion_date, category,
			total_rows, valid_rows, rejected_rows, duplicate_rows, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (file_name) DO UPDATE SET
			checksum = excluded.checksum,
			run_id = excluded.run_id,
			ingestion_date = excluded.ingestion_date,
			category = excluded.category,
			total_rows = excluded.total_rows,
			valid_rows = excluded.valid_rows,
			rejected_rows = excluded.rejected_rows,
			duplicate_rows = excluded.duplicate_rows,
			processed_at = excluded.processed_at
	`, f.FileName, f.Checksum, f.RunID, f.IngestionDate, f.Category, f.TotalRows, f.ValidRows,
		f.RejectedRows, f.DuplicateRows, f.ProcessedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark file processed: %w", err)
	}
	return nil
}

func (r *SQLFileRepository) GetProcessedFileCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM processed_files`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count processed files: %w", err)
	}
	return count, nil
}
