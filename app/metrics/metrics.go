// Package metrics holds the Prometheus collectors for pipeline runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FilesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_etl_files_total",
			Help: "Source files handled by the pipeline, labeled by outcome.",
		},
		[]string{"status"},
	)
	RowsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_etl_rows_total",
			Help: "Rows read from source files, labeled by validation outcome.",
		},
		[]string{"outcome"},
	)
	FileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_etl_file_duration_seconds",
			Help:    "Time spent processing a single source file.",
			Buckets: prometheus.DefBuckets,
		},
	)
	MediaProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_etl_media_probes_total",
			Help: "Cover image probes, labeled by result and whether the cache answered.",
		},
		[]string{"result", "source"},
	)
	SinkWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_etl_sink_writes_total",
			Help: "Records written to a sink, labeled by sink and operation.",
		},
		[]string{"sink", "operation"},
	)
	SinkWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_etl_sink_write_duration_seconds",
			Help:    "Duration of a sink upsert call.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)
	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_etl_last_run_timestamp_seconds",
			Help: "Unix time the last pipeline run finished.",
		},
	)
)

func init() {
	prometheus.MustRegister(FilesProcessed)
	prometheus.MustRegister(RowsProcessed)
	prometheus.MustRegister(FileDuration)
	prometheus.MustRegister(MediaProbes)
	prometheus.MustRegister(SinkWrites)
	prometheus.MustRegister(SinkWriteDuration)
	prometheus.MustRegister(LastRunTimestamp)
}
