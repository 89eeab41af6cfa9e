package database

type RunRepository interface {
	StartRun(run Run) error
	FinishRun(run Run) error
	GetRun(id string) (*Run, error)
}

type FileRepository interface {
	GetProcessedFile(fileName string) (*ProcessedFile, error)
	MarkProcessed(file ProcessedFile) error
	GetProcessedFileCount() (int, error)
}
