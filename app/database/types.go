package database

import (
	"time"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

type Run struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      *time.Time
	Status          string
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	SkippedFiles    int
	TotalRows       int
	ValidRows       int
	RejectedRows    int
	DuplicateRows   int
	DurationMs      int64
}

// ProcessedFile is a source file that was fully loaded into every sink.
type ProcessedFile struct {
	FileName      string
	Checksum      string // hex SHA-256 of the file contents
	RunID         string
	IngestionDate string
	Category      string
	TotalRows     int
	ValidRows     int
	RejectedRows  int
	DuplicateRows int
	ProcessedAt   time.Time
}
