package loader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/catalog-etl/app/catalog"
	"github.com/lysyi3m/catalog-etl/app/metrics"
)

// Result counts what a sink did with one batch. Errors holds per-record
// write failures that did not stop the batch.
type Result struct {
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors,omitempty"`
}

// Sink is a durable store that upserts records by their composite key.
type Sink interface {
	Name() string
	Load(ctx context.Context, records []catalog.Record) (Result, error)
	Close() error
}

type SinkResult struct {
	Sink string `json:"sink"`
	Result
}

// Loader writes the same batch to every configured sink.
type Loader struct {
	sinks []Sink
}

func New(sinks ...Sink) *Loader {
	return &Loader{sinks: sinks}
}

// Run loads records into each sink in turn. A sink-level error stops the
// batch and is returned together with the results gathered so far.
func (l *Loader) Run(ctx context.Context, records []catalog.Record) ([]SinkResult, error) {
	results := make([]SinkResult, 0, len(l.sinks))
	if len(records) == 0 {
		return results, nil
	}

	for _, sink := range l.sinks {
		start := time.Now()
		result, err := sink.Load(ctx, records)
		metrics.SinkWriteDuration.WithLabelValues(sink.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			return results, fmt.Errorf("failed to load into %s: %w", sink.Name(), err)
		}

		metrics.SinkWrites.WithLabelValues(sink.Name(), "insert").Add(float64(result.Inserted))
		metrics.SinkWrites.WithLabelValues(sink.Name(), "update").Add(float64(result.Updated))

		slog.Debug("Batch loaded",
			"sink", sink.Name(),
			"records", len(records),
			"inserted", result.Inserted,
			"updated", result.Updated,
			"errors", len(result.Errors),
			"duration", time.Since(start))

		results = append(results, SinkResult{Sink: sink.Name(), Result: result})
	}

	return results, nil
}

// Close closes every sink and returns the first error.
func (l *Loader) Close() error {
	var first error
	for _, sink := range l.sinks {
		if err := sink.Close(); err != nil {
			slog.Error("Failed to close sink", "sink", sink.Name(), "error", err)
			if first == nil {
				first = fmt.Errorf("failed to close %s: %w", sink.Name(), err)
			}
		}
	}
	return first
}
