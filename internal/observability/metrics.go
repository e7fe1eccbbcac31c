package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "extricrate_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	})

	ResolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "extricrate_resolution_seconds",
		Help:    "Time spent on one full crate resolution run.",
		Buckets: prometheus.DefBuckets,
	})

	FilesWalked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "extricrate_files_walked_total",
		Help: "Total number of source files visited by the module walker.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "extricrate_graph_nodes_total",
		Help: "Total number of modules in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "extricrate_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "extricrate_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	ResolutionErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "extricrate_resolution_errors_total",
		Help: "Total number of resolution runs that aborted with an error.",
	})
)
