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
	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Ledger metrics
	TotalStaked        *prometheus.GaugeVec
	RewardsClaimed     *prometheus.CounterVec
	ReflectionsClaimed *prometheus.CounterVec
	FeesCollected      *prometheus.CounterVec

	// Journal and broadcast metrics
	EventsJournaled  prometheus.Counter
	JournalErrors    prometheus.Counter
	EventsBroadcast  prometheus.Counter
	ConnectedClients prometheus.Gauge

	// Snapshot metrics
	SnapshotRunsTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	UptimeSeconds prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "staking_ledger"
	}

	return &Metrics{
		// Operation metrics
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of ledger operations by kind and status",
		}, []string{"operation", "status"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		// Ledger metrics
		TotalStaked: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "total_staked",
			Help:      "Tokens currently staked by project",
		}, []string{"project"}),
		RewardsClaimed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rewards_claimed_total",
			Help:      "Total reward tokens claimed by project",
		}, []string{"project"}),
		ReflectionsClaimed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "reflections_claimed_total",
			Help:      "Total reflection tokens claimed by project",
		}, []string{"project"}),
		FeesCollected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "fees_collected_total",
			Help:      "Total fees collected by operation",
		}, []string{"operation"}),

		// Journal and broadcast metrics
		EventsJournaled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "events_total",
			Help:      "Total number of events journaled",
		}),
		JournalErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "errors_total",
			Help:      "Total number of journal append errors",
		}),
		EventsBroadcast: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "events_total",
			Help:      "Total number of events broadcast to subscribers",
		}),
		ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "connected_clients",
			Help:      "Number of connected websocket subscribers",
		}),

		// Snapshot metrics
		SnapshotRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "runs_total",
			Help:      "Total number of snapshot runs by status",
		}, []string{"status"}),

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
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordOperation records one ledger operation outcome.
func RecordOperation(operation, status string, seconds float64) {
	DefaultMetrics.OperationsTotal.WithLabelValues(operation, status).Inc()
	DefaultMetrics.OperationDuration.WithLabelValues(operation).Observe(seconds)
}

// UpdateTotalStaked sets the staked gauge for a project.
func UpdateTotalStaked(project string, amount uint64) {
	DefaultMetrics.TotalStaked.WithLabelValues(project).Set(float64(amount))
}

// RecordRewardsClaimed adds to a project's claimed-rewards counter.
func RecordRewardsClaimed(project string, amount uint64) {
	DefaultMetrics.RewardsClaimed.WithLabelValues(project).Add(float64(amount))
}

// RecordReflectionsClaimed adds to a project's claimed-reflections counter.
func RecordReflectionsClaimed(project string, amount uint64) {
	DefaultMetrics.ReflectionsClaimed.WithLabelValues(project).Add(float64(amount))
}

// RecordFee adds to the fee counter for an operation.
func RecordFee(operation string, amount uint64) {
	DefaultMetrics.FeesCollected.WithLabelValues(operation).Add(float64(amount))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordSnapshotRun records a snapshot run outcome.
func RecordSnapshotRun(status string) {
	DefaultMetrics.SnapshotRunsTotal.WithLabelValues(status).Inc()
}
