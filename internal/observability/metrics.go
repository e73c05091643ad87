package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	FieldsConsumed   prometheus.Counter
	WarningsProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Warn computation metrics.
	WarnGenerationDuration prometheus.Histogram
	WarnCellsTotal         prometheus.Counter
	CellsClamped           *prometheus.CounterVec // labels: bound={low,high}
	MaxWarnLevel           *prometheus.GaugeVec   // labels: hazard_type

	// Archive metrics.
	WarningsArchived prometheus.Counter
	ArchiveErrors    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FieldsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "fields_consumed_total",
			Help:      "Total hazard field payloads read from the source topic.",
		}),
		WarningsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "warnings_produced_total",
			Help:      "Total warning events written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "transform_errors_total",
			Help:      "Total transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warnmap_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warnmap_etl",
			Name:      "batch_size",
			Help:      "Number of payloads per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warnmap_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		WarnGenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "warnmap_etl",
			Name:      "warn_generation_duration_seconds",
			Help:      "Duration of one warn map computation (binning, filtering, region merging).",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		WarnCellsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "warn_cells_total",
			Help:      "Total grid cells classified across all warn maps.",
		}),
		CellsClamped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "cells_clamped_total",
			Help:      "Grid cells falling outside the configured level boundaries, by bound.",
		}, []string{"bound"}),
		MaxWarnLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "warnmap_etl",
			Name:      "max_warn_level",
			Help:      "Highest warn level in the most recent warning per hazard type.",
		}, []string{"hazard_type"}),
		WarningsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "warnings_archived_total",
			Help:      "Total warning events written to the local archive.",
		}),
		ArchiveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "warnmap_etl",
			Name:      "archive_errors_total",
			Help:      "Total archive write failures.",
		}),
	}

	prometheus.MustRegister(
		m.FieldsConsumed,
		m.WarningsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.WarnGenerationDuration,
		m.WarnCellsTotal,
		m.CellsClamped,
		m.MaxWarnLevel,
		m.WarningsArchived,
		m.ArchiveErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FieldsConsumed:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "fields_consumed_total"}),
		WarningsProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "warnings_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "warnmap_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "warnmap_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "warnmap_etl", Name: "batch_processing_duration_seconds"}),
		WarnGenerationDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "warnmap_etl", Name: "warn_generation_duration_seconds"}),
		WarnCellsTotal:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "warn_cells_total"}),
		CellsClamped:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "cells_clamped_total"}, []string{"bound"}),
		MaxWarnLevel:            prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "warnmap_etl", Name: "max_warn_level"}, []string{"hazard_type"}),
		WarningsArchived:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "warnings_archived_total"}),
		ArchiveErrors:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "warnmap_etl", Name: "archive_errors_total"}),
	}
}
