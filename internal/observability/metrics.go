// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geocached"

// Metrics holds the Prometheus collectors for geocoding requests and the spatial cache.
type Metrics struct {
	GeocodeRequests *prometheus.CounterVec   // labels: method={reverse,search}, outcome={found,cache_hit,miss,failed}
	GeocodeCache    *prometheus.CounterVec   // labels: result={hit,miss,disabled}
	FetchDuration   *prometheus.HistogramVec // labels: provider
	CacheEvicted    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.FetchDuration,
		m.CacheEvicted,
	)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered with any registry, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Spatial cache lookups by result.",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Provider HTTP request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		CacheEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evicted_rows_total",
			Help:      "Cache rows removed by the TTL sweep.",
		}),
	}
}
