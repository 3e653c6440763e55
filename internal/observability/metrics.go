// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Walk-forward metrics
	RunsTotal          *prometheus.CounterVec
	RunDuration        *prometheus.HistogramVec
	RunsSkipped        *prometheus.CounterVec
	WarmupBars         *prometheus.CounterVec
	EvaluationBars     *prometheus.CounterVec
	SnapshotsGenerated prometheus.Counter
	SnapshotsExported  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "signal_lab"
	}

	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "runs_total",
			Help:      "Total number of walk-forward runs by mode and status",
		}, []string{"mode", "status"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "run_duration_seconds",
			Help:      "Walk-forward run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"mode"}),
		RunsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "runs_skipped_total",
			Help:      "Runs that returned early for insufficient data",
		}, []string{"mode", "reason"}),
		WarmupBars: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "warmup_bars_total",
			Help:      "Bars fed to the aggregator during warm-up",
		}, []string{"mode"}),
		EvaluationBars: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "evaluation_bars_total",
			Help:      "Bars fed to the signal engine during evaluation",
		}, []string{"mode"}),
		SnapshotsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "signal_snapshots_generated_total",
			Help:      "Signal state snapshots collected in generation mode",
		}),
		SnapshotsExported: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walkforward",
			Name:      "snapshots_exported_total",
			Help:      "Engine snapshots exported in validation mode by signal key",
		}, []string{"signal_key"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRun records a finished walk-forward run.
func RecordRun(mode, status string, durationSeconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(mode, status).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordRunSkipped records a run that returned early.
func RecordRunSkipped(mode, reason string) {
	DefaultMetrics.RunsSkipped.WithLabelValues(mode, reason).Inc()
}

// AddWarmupBars adds to the warm-up bar counter.
func AddWarmupBars(mode string, n int) {
	DefaultMetrics.WarmupBars.WithLabelValues(mode).Add(float64(n))
}

// RecordEvaluationBar increments the evaluation bar counter.
func RecordEvaluationBar(mode string) {
	DefaultMetrics.EvaluationBars.WithLabelValues(mode).Inc()
}

// RecordSnapshotGenerated increments the generated snapshot counter.
func RecordSnapshotGenerated() {
	DefaultMetrics.SnapshotsGenerated.Inc()
}

// RecordSnapshotExported increments the exported snapshot counter.
func RecordSnapshotExported(signalKey string) {
	DefaultMetrics.SnapshotsExported.WithLabelValues(signalKey).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
