package api

import (
	"github.com/lysyi3m/catalog-etl/app/database"
	"github.com/lysyi3m/catalog-etl/app/pipeline"
)

// RunStatus reports the progress of the run in flight.
type RunStatus interface {
	RunID() string
	State() pipeline.State
}

var _ RunStatus = (*pipeline.Runner)(nil)

type Handler struct {
	status   RunStatus
	runRepo  database.RunRepository
	fileRepo database.FileRepository
}
