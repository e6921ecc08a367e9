// Package metrics exposes Prometheus instrumentation for benchmark runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics represents the collection of all Prometheus metrics
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationMemory   *prometheus.GaugeVec
	RowsProcessed     *prometheus.GaugeVec
	RunsTotal         *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all benchmark metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchmark_operations_total",
			Help: "Total number of benchmark operations executed",
		},
		[]string{"operation", "status"},
	)

	m.OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "benchmark_operation_duration_seconds",
			Help:    "Duration of benchmark operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"operation"},
	)

	m.OperationMemory = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchmark_operation_memory_mb",
			Help: "Resident memory growth per operation in megabytes",
		},
		[]string{"operation"},
	)

	m.RowsProcessed = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchmark_operation_rows_processed",
			Help: "Rows processed by the most recent run of each operation",
		},
		[]string{"operation"},
	)

	m.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "benchmark_runs_total",
			Help: "Total number of benchmark suite runs",
		},
		[]string{"engine", "status"},
	)

	m.registry.MustRegister(
		m.OperationsTotal,
		m.OperationDuration,
		m.OperationMemory,
		m.RowsProcessed,
		m.RunsTotal,
	)

	return m
}

// TrackOperation records a single completed operation measurement.
func (m *Metrics) TrackOperation(operation string, durationMS, memoryMB int64, rows *int64) {
	m.OperationsTotal.WithLabelValues(operation, "success").Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(float64(durationMS) / 1000)
	m.OperationMemory.WithLabelValues(operation).Set(float64(memoryMB))
	if rows != nil {
		m.RowsProcessed.WithLabelValues(operation).Set(float64(*rows))
	}
}

// TrackOperationFailure records an operation that errored and was omitted
// from the result set.
func (m *Metrics) TrackOperationFailure(operation string) {
	m.OperationsTotal.WithLabelValues(operation, "failure").Inc()
}

// TrackRun records the outcome of a full suite run.
func (m *Metrics) TrackRun(engine string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(engine, status).Inc()
}

// Handler returns the Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
