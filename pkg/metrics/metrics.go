package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TreeBuilds counts menu tree builds by menu slug and source (build|cache).
	TreeBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examportal_menu_tree_builds_total",
			Help: "Total number of menu tree builds",
		},
		[]string{"menu", "source"},
	)

	// TreeWarnings counts configuration problems found while building menu trees.
	TreeWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examportal_menu_tree_warnings_total",
			Help: "Total number of menu tree warnings by kind",
		},
		[]string{"menu", "kind"},
	)

	// TreeNodes tracks the number of nodes in the most recent build of each menu.
	TreeNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "examportal_menu_tree_nodes",
			Help: "Number of reachable nodes in the last built menu tree",
		},
		[]string{"menu"},
	)

	// RealtimeClients tracks connected websocket clients.
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "examportal_realtime_clients",
			Help: "Number of connected realtime clients",
		},
	)

	// MaintenanceRuns counts maintenance job executions by job and result (ok|error).
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examportal_maintenance_runs_total",
			Help: "Total number of maintenance job runs",
		},
		[]string{"job", "result"},
	)

	// AuthDecisions counts bearer token checks by result (missing|invalid|denied|allowed).
	AuthDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examportal_auth_decisions_total",
			Help: "Total number of admin route authorization decisions",
		},
		[]string{"result"},
	)

	// RecoveredPanics counts handler panics turned into 500 responses, by route.
	RecoveredPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "examportal_http_panics_total",
			Help: "Total number of recovered handler panics",
		},
		[]string{"route"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "examportal_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
