package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harvestmarket/cache-service/internal/core/ports"
)

var (
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "The total number of cache hits by tier",
		},
		[]string{"tier"},
	)

	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "The total number of full cache misses",
		},
	)

	cacheRemoteErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_remote_errors_total",
			Help: "The total number of remote store command failures by operation",
		},
		[]string{"operation"},
	)

	cacheFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cache_source_fetch_duration_seconds",
			Help: "The source fetch latencies in seconds on full misses",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
	prometheus.MustRegister(cacheRemoteErrorsTotal)
	prometheus.MustRegister(cacheFetchDuration)
}

// CacheMetrics records orchestrator activity into the package-level
// Prometheus collectors.
type CacheMetrics struct{}

func NewCacheMetrics() *CacheMetrics {
	return &CacheMetrics{}
}

func (m *CacheMetrics) RecordHit(tier string) {
	cacheHitsTotal.WithLabelValues(tier).Inc()
}

func (m *CacheMetrics) RecordMiss() {
	cacheMissesTotal.Inc()
}

func (m *CacheMetrics) RecordRemoteError(op string) {
	cacheRemoteErrorsTotal.WithLabelValues(op).Inc()
}

func (m *CacheMetrics) RecordFetch(d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	cacheFetchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

var _ ports.CacheMetrics = (*CacheMetrics)(nil)

// RegisterLocalStoreCollectors exposes the live occupancy of the local tier.
// Call once at wiring time.
func RegisterLocalStoreCollectors(store ports.LocalStore) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "cache_local_entries",
			Help: "The current number of live entries in the local tier",
		},
		func() float64 { return float64(store.Stats().Entries) },
	))
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "cache_local_size_bytes",
			Help: "The current estimated payload size of the local tier in bytes",
		},
		func() float64 { return float64(store.Stats().SizeBytes) },
	))
}
