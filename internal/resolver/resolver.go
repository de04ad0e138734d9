// Package resolver maps incoming request hostnames to guestbooks. It runs
// on every request to a custom domain, so the common case must stay at one
// cache lookup with no store round-trip.
package resolver

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"guestwall/internal/domaincache"
	"guestwall/internal/metrics"
	"guestwall/internal/model"
	"guestwall/internal/store"
)

// ErrNotConfigured means the hostname is resolved and confirmed to belong
// to no guestbook.
var ErrNotConfigured = errors.New("domain not configured")

// Source reports which layer answered a resolution, mostly for tests and
// log lines.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
)

// Store is the single-read lookup behind the cache.
type Store interface {
	FindByDomain(ctx context.Context, hostname string) (*model.Guestbook, error)
}

// Cache is the read-through side of the domain cache.
type Cache interface {
	Get(ctx context.Context, hostname string) (*domaincache.Mapping, domaincache.Outcome)
	SetPositive(ctx context.Context, hostname string, m *domaincache.Mapping)
	SetNegative(ctx context.Context, hostname string)
}

// Resolver resolves hostnames with a cache -> store -> negative-cache-write
// precedence chain. Concurrent misses for one hostname are not de-duplicated;
// each racer reads the store and writes the same value, which is a bounded
// inefficiency, not a correctness problem.
type Resolver struct {
	cache   Cache
	store   Store
	metrics *metrics.ResolverMetrics
	logger  *logrus.Entry
}

// New creates a Resolver. metrics may be nil.
func New(cache Cache, st Store, m *metrics.ResolverMetrics, logger *logrus.Entry) *Resolver {
	return &Resolver{
		cache:   cache,
		store:   st,
		metrics: m,
		logger:  logger.WithField("component", "hostname-resolver"),
	}
}

// Resolve maps a normalized hostname to its guestbook.
//
// Returns ErrNotConfigured when the hostname is confirmed absent (negative
// cache hit, or a store read that found nothing — which also seeds the
// negative cache). Any other error means the store was unreachable and the
// hostname's state is unknown.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (*domaincache.Mapping, Source, error) {
	if m, outcome := r.cache.Get(ctx, hostname); outcome == domaincache.Hit {
		r.count(func(mm *metrics.ResolverMetrics) { mm.CacheHits.Inc() })
		return m, SourceCache, nil
	} else if outcome == domaincache.Negative {
		r.count(func(mm *metrics.ResolverMetrics) { mm.NegativeHits.Inc() })
		return nil, SourceCache, ErrNotConfigured
	}

	r.count(func(mm *metrics.ResolverMetrics) { mm.CacheMisses.Inc(); mm.StoreFallback.Inc() })

	gb, err := r.store.FindByDomain(ctx, hostname)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.cache.SetNegative(ctx, hostname)
			return nil, SourceStore, ErrNotConfigured
		}
		r.logger.WithError(err).WithField("hostname", hostname).Error("store lookup failed")
		return nil, SourceStore, err
	}

	m := &domaincache.Mapping{Slug: gb.Slug, GuestbookID: gb.ID}
	r.cache.SetPositive(ctx, hostname, m)
	return m, SourceStore, nil
}

func (r *Resolver) count(fn func(*metrics.ResolverMetrics)) {
	if r.metrics != nil {
		fn(r.metrics)
	}
}
