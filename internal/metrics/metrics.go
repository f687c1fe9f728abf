// Package metrics exposes the process-wide Prometheus collectors for the
// cache and lookup session, registered once at init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "goresolver_cache_entries", Help: "Entries currently held per class"},
		[]string{"class"},
	)
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "goresolver_cache_hits_total", Help: "Cache lookups satisfied from memory"},
		[]string{"class", "result"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "goresolver_cache_misses_total", Help: "Cache lookups that found nothing usable"},
		[]string{"class"},
	)
	CacheEvictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "goresolver_cache_evictions_total", Help: "Entries removed by a Sweep after expiry"},
		[]string{"class", "reason"},
	)
	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goresolver_lookup_duration_seconds",
			Help:    "End-to-end lookup session latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)
	TransportRoundTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "goresolver_transport_roundtrips_total", Help: "Messages sent to a transport"},
		[]string{"proto", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(CacheEntries, CacheHits, CacheMisses, CacheEvictions, LookupDuration, TransportRoundTrips)
}

// ObserveLookup records a completed lookup session's latency under result
// (e.g. "success", "nxdomain", "servfail", "failed").
func ObserveLookup(result string, start time.Time) {
	LookupDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
