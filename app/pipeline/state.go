package pipeline

import "errors"

var (
	ErrSinkUnavailable  = errors.New("sink unavailable")
	ErrSourceUnreadable = errors.New("source directory unreadable")
)

type State int

const (
	StateIdle State = iota
	StateInitializing
	StateDiscovering
	StateProcessingFile
	StateSummarizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateDiscovering:
		return "discovering"
	case StateProcessingFile:
		return "processing_file"
	case StateSummarizing:
		return "summarizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
