// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Metrics engine
	PipelineRunsTotal  *prometheus.CounterVec
	PipelineDuration   prometheus.Histogram
	GamesProcessed     prometheus.Counter
	MetricRowsComputed *prometheus.CounterVec

	// Experiment analysis
	AnalysisRunsTotal prometheus.Counter
	AnalysisDuration  prometheus.Histogram
	UsersAnalyzed     prometheus.Counter
	SRMFailures       prometheus.Counter

	// Reporting
	ReportsGenerated prometheus.Counter

	// Database
	DBQueryErrors *prometheus.CounterVec

	// Health
	LastSuccessfulPipeline prometheus.Gauge
	LastSuccessfulAnalysis prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fantasy_analytics"
	}

	return &Metrics{
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of metrics pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Metrics pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		GamesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "games_processed_total",
			Help:      "Total number of player game rows processed",
		}),
		MetricRowsComputed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "metric_rows_computed_total",
			Help:      "Total number of derived metric rows computed by table",
		}, []string{"table"}),

		AnalysisRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of experiment analysis runs",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Experiment analysis duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		UsersAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "users_analyzed_total",
			Help:      "Total number of experiment users analyzed",
		}),
		SRMFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "srm_failures_total",
			Help:      "Total number of sample ratio mismatch detections",
		}),

		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulPipeline: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
		LastSuccessfulAnalysis: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPipelineRun records a successful metrics pipeline run.
func (m *Metrics) RecordPipelineRun(games int, d time.Duration) {
	m.PipelineRunsTotal.WithLabelValues("success").Inc()
	m.PipelineDuration.Observe(d.Seconds())
	m.GamesProcessed.Add(float64(games))
	m.LastSuccessfulPipeline.SetToCurrentTime()
}

// RecordPipelineError records a failed metrics pipeline run.
func (m *Metrics) RecordPipelineError() {
	m.PipelineRunsTotal.WithLabelValues("error").Inc()
}

// RecordAnalysisRun records a successful experiment analysis run.
func (m *Metrics) RecordAnalysisRun(users int, d time.Duration) {
	m.AnalysisRunsTotal.Inc()
	m.AnalysisDuration.Observe(d.Seconds())
	m.UsersAnalyzed.Add(float64(users))
	m.LastSuccessfulAnalysis.SetToCurrentTime()
}

// RecordDBError records a database query error.
func (m *Metrics) RecordDBError(database, operation string) {
	m.DBQueryErrors.WithLabelValues(database, operation).Inc()
}
