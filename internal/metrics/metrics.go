package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResolverMetrics holds Prometheus metrics for the hostname resolver.
type ResolverMetrics struct {
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
	NegativeHits  prometheus.Counter
	StoreFallback prometheus.Counter
}

// NewResolverMetrics initializes and registers the resolver metrics.
func NewResolverMetrics() *ResolverMetrics {
	return &ResolverMetrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "guestwall",
			Subsystem: "resolver",
			Name:      "cache_hits_total",
			Help:      "Total number of hostname resolutions served from the cache.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "guestwall",
			Subsystem: "resolver",
			Name:      "cache_misses_total",
			Help:      "Total number of hostname resolutions that missed the cache.",
		}),
		NegativeHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "guestwall",
			Subsystem: "resolver",
			Name:      "negative_hits_total",
			Help:      "Total number of resolutions answered by the negative cache.",
		}),
		StoreFallback: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "guestwall",
			Subsystem: "resolver",
			Name:      "store_lookups_total",
			Help:      "Total number of source-of-truth lookups on cache miss.",
		}),
	}
}

// LifecycleMetrics counts domain lifecycle operations by outcome.
type LifecycleMetrics struct {
	OpsTotal *prometheus.CounterVec
}

// NewLifecycleMetrics initializes and registers the lifecycle metrics.
func NewLifecycleMetrics() *LifecycleMetrics {
	return &LifecycleMetrics{
		OpsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guestwall",
			Subsystem: "domain_lifecycle",
			Name:      "operations_total",
			Help:      "Total number of domain lifecycle operations by op and outcome.",
		}, []string{"op", "outcome"}), // op: add, verify, remove, status; outcome: ok, error
	}
}
