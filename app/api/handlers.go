package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/catalog-etl/app/database"
)

// NewHandler builds the HTTP handlers. The repositories may be nil when
// the run ledger is unavailable.
func NewHandler(status RunStatus, runRepo database.RunRepository, fileRepo database.FileRepository) *Handler {
	return &Handler{
		status:   status,
		runRepo:  runRepo,
		fileRepo: fileRepo,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"run_id":    h.status.RunID(),
		"state":     h.status.State().String(),
	}

	if h.fileRepo != nil {
		if count, err := h.fileRepo.GetProcessedFileCount(); err == nil {
			health["processed_files"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing run id parameter"})
		return
	}

	if h.runRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run ledger unavailable"})
		return
	}

	run, err := h.runRepo.GetRun(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_run", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	details := gin.H{
		"id":               run.ID,
		"status":           run.Status,
		"started_at":       run.StartedAt,
		"finished_at":      run.FinishedAt,
		"duration_ms":      run.DurationMs,
		"total_files":      run.TotalFiles,
		"successful_files": run.SuccessfulFiles,
		"failed_files":     run.FailedFiles,
		"skipped_files":    run.SkippedFiles,
		"rows": gin.H{
			"total":     run.TotalRows,
			"valid":     run.ValidRows,
			"rejected":  run.RejectedRows,
			"duplicate": run.DuplicateRows,
		},
	}

	c.JSON(http.StatusOK, details)
}
