package observability

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResolveDuration is a histogram of single-graph resolve time, by
	// outcome (ok, invalid_graph, did_not_converge). Resolver.Analyze does
	// not record into it; it stays empty unless a caller observes it.
	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "depresolve_resolve_duration_seconds",
			Help:    "Time to resolve a single dependency graph, by outcome",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"outcome"},
	)

	// ResolveIterations tracks how many fixpoint passes a resolve needed
	// before every node reached a terminal disposition.
	ResolveIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "depresolve_resolve_iterations",
			Help:    "Number of fixpoint iterations a resolve needed to converge",
			Buckets: prometheus.LinearBuckets(1, 1, 20),
		},
		[]string{"graph"},
	)

	// NodesAcceptedTotal counts nodes that reached the Accepted disposition.
	NodesAcceptedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_nodes_accepted_total",
			Help: "Total number of graph nodes accepted by the resolver",
		},
		[]string{"graph"},
	)

	// NodesRejectedTotal counts nodes that reached the Rejected disposition.
	NodesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_nodes_rejected_total",
			Help: "Total number of graph nodes rejected by the resolver",
		},
		[]string{"graph"},
	)

	// CyclesDetectedTotal counts cycle dispositions assigned during a resolve.
	CyclesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_cycles_detected_total",
			Help: "Total number of dependency cycles detected",
		},
		[]string{"graph"},
	)

	// DowngradesReportedTotal counts downgrade reports surviving the
	// ephemeral filter (i.e. the accepted candidate really is lower than
	// some rejected rival).
	DowngradesReportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_downgrades_reported_total",
			Help: "Total number of non-ephemeral downgrades reported",
		},
		[]string{"graph"},
	)

	// VersionConflictsTotal counts the VersionConflicts entries a resolve
	// reports: names whose accepted version does not satisfy the range of
	// a rejected candidate with an accepted parent.
	VersionConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_version_conflicts_total",
			Help: "Total number of package names with competing version candidates",
		},
		[]string{"graph"},
	)

	// RestoreCacheHitsTotal counts GraphCache lookups that found an
	// already-running or completed resolve for the same graph key.
	RestoreCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_restore_cache_hits_total",
			Help: "Total number of restore graph-cache hits",
		},
		[]string{"tier"},
	)

	// RestoreCacheMissesTotal counts GraphCache lookups that had to start
	// a fresh resolve.
	RestoreCacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "depresolve_restore_cache_misses_total",
			Help: "Total number of restore graph-cache misses",
		},
		[]string{"tier"},
	)
)

// MetricsHandler returns an HTTP handler for Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer starts an HTTP server exposing Prometheus metrics.
func StartMetricsServer(addr string) error {
	http.Handle("/metrics", MetricsHandler())
	return http.ListenAndServe(addr, nil)
}

// GetCounterValue retrieves the current value of a counter metric with the
// given labels. Primarily intended for testing.
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
