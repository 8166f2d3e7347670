// Package observability provides Prometheus metrics, structured logging and tracing.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RecordsFetched  *prometheus.CounterVec
	RecordsStored   *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec

	// Feature build metrics
	GamesPaired     *prometheus.CounterVec
	UnpairedGames   *prometheus.CounterVec
	RowsGated       *prometheus.CounterVec
	VectorsProduced *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulIngestion prometheus.Gauge
	LastSuccessfulBuild     prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "nba_matchup_lab"
	}

	return &Metrics{
		// Ingestion metrics
		RecordsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_fetched_total",
			Help:      "Total number of team-game records fetched by source",
		}, []string{"source"}),
		RecordsStored: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_stored_total",
			Help:      "Total number of team-game records stored by season",
		}, []string{"season"}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "cache_lookups_total",
			Help:      "Total number of game-log cache lookups by result",
		}, []string{"result"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "statsapi",
			Name:      "request_latency_seconds",
			Help:      "Statistics provider request latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "statsapi",
			Name:      "request_errors_total",
			Help:      "Total number of failed provider requests by kind",
		}, []string{"endpoint", "kind"}),

		// Feature build metrics
		GamesPaired: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "games_paired_total",
			Help:      "Total number of games with both perspectives joined",
		}, []string{"season"}),
		UnpairedGames: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "unpaired_games_total",
			Help:      "Total number of games dropped by the home/visitor join",
		}, []string{"season"}),
		RowsGated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "rows_gated_total",
			Help:      "Total number of matchups dropped by the completeness gate",
		}, []string{"season"}),
		VectorsProduced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "vectors_produced_total",
			Help:      "Total number of feature vectors produced",
		}, []string{"season"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "stage_duration_seconds",
			Help:      "Feature stage duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"phase"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulIngestion: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingestion_timestamp",
			Help:      "Unix timestamp of last successful ingestion",
		}),
		LastSuccessfulBuild: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_build_timestamp",
			Help:      "Unix timestamp of last successful season build",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFetched adds n records fetched from source.
func RecordFetched(source string, n int) {
	DefaultMetrics.RecordsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordStored adds n records stored for season and marks ingestion healthy.
func RecordStored(season string, n int, unixSeconds int64) {
	DefaultMetrics.RecordsStored.WithLabelValues(season).Add(float64(n))
	DefaultMetrics.LastSuccessfulIngestion.Set(float64(unixSeconds))
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	DefaultMetrics.CacheLookups.WithLabelValues(result).Inc()
}

// RecordProviderLatency records provider request latency.
func RecordProviderLatency(endpoint string, seconds float64) {
	DefaultMetrics.ProviderLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordProviderError records a failed provider request.
func RecordProviderError(endpoint, kind string) {
	DefaultMetrics.ProviderErrors.WithLabelValues(endpoint, kind).Inc()
}

// RecordStage records the duration of one feature stage.
func RecordStage(stage string, seconds float64) {
	DefaultMetrics.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordSeasonBuild records the counts of a finished season build.
func RecordSeasonBuild(season string, paired, unpaired, gated, produced int, unixSeconds int64) {
	DefaultMetrics.GamesPaired.WithLabelValues(season).Add(float64(paired))
	DefaultMetrics.UnpairedGames.WithLabelValues(season).Add(float64(unpaired))
	DefaultMetrics.RowsGated.WithLabelValues(season).Add(float64(gated))
	DefaultMetrics.VectorsProduced.WithLabelValues(season).Add(float64(produced))
	DefaultMetrics.LastSuccessfulBuild.Set(float64(unixSeconds))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordPipelineRun records a pipeline run.
func RecordPipelineRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}
