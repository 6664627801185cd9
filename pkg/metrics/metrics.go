// Package metrics exposes Prometheus collectors for astrosource.
//
// The interesting signals all revolve around lazy data loading: how often
// external loaders actually run, how often a descriptor's cached payload is
// reused, and how long loads take.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DataLoads counts external loader invocations.
	// Labels: kind (descriptor kind), status (success/failure)
	DataLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrosource_data_loads_total",
			Help: "Total number of external data loader invocations",
		},
		[]string{"kind", "status"},
	)

	// CacheHits counts load requests answered from a descriptor's cached
	// payload without re-invoking the external loader.
	// Labels: kind (descriptor kind)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "astrosource_descriptor_cache_hits_total",
			Help: "Load requests served from the descriptor payload cache",
		},
		[]string{"kind"},
	)

	// LoadLatency tracks the duration of external loader invocations.
	// Labels: kind (descriptor kind)
	LoadLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "astrosource_data_load_duration_seconds",
			Help: "External data load duration in seconds",
			Buckets: []float64{
				0.001, // header-only reads
				0.01,
				0.1,
				1,
				10,  // large cubes
				60,  // pathological I/O
			},
		},
		[]string{"kind"},
	)

	// SourcesBuilt counts configuration trees successfully resolved into
	// source graphs.
	SourcesBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "astrosource_sources_built_total",
			Help: "Total number of source trees built from configuration",
		},
	)
)

// ObserveLoad records one loader invocation outcome with its duration.
func ObserveLoad(kind string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DataLoads.WithLabelValues(kind, status).Inc()
	LoadLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
