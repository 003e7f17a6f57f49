// Package metrics collects per-run counters in a private prometheus registry that
// can be dumped for the node-exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the metrics of one run.
type Recorder struct {
	registry *prometheus.Registry

	// CellsTotal counts classified cells by source column and label
	CellsTotal *prometheus.CounterVec

	// FailuresTotal counts cells whose classification failed and defaulted to Neutral
	FailuresTotal *prometheus.CounterVec

	// RowsLoaded is the row count of the input dataset
	RowsLoaded prometheus.Gauge

	// RunDuration is the wall time of the run in seconds
	RunDuration prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		CellsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentimentcsv_cells_total",
				Help: "Classified cells by source column and label",
			},
			[]string{"column", "label"},
		),
		FailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentimentcsv_classification_failures_total",
				Help: "Cells whose classification failed and were labelled Neutral",
			},
			[]string{"column"},
		),
		RowsLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentimentcsv_rows_loaded",
				Help: "Rows in the input dataset",
			},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentimentcsv_run_duration_seconds",
				Help: "Wall time of the last run in seconds",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes every metric in text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
