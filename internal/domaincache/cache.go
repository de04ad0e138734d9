// Package domaincache is the shared read-through accelerator in front of the
// guestbook store, keyed by normalized hostname.
package domaincache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "domain:"

// negativeSentinel marks a hostname as resolved and confirmed absent,
// distinct from a plain cache miss.
const negativeSentinel = "!"

// Outcome classifies a cache read.
type Outcome int

const (
	Miss Outcome = iota
	Hit
	Negative
)

// Mapping is the cached resolution of a hostname to its guestbook.
type Mapping struct {
	Slug        string `json:"slug"`
	GuestbookID int    `json:"gid"`
}

// Cache wraps the shared Redis client. A Cache built over a nil client is
// valid: every read is a Miss and every write is a silent no-op, so the
// system stays correct (just slower) when Redis is unconfigured or down.
type Cache struct {
	client      *redis.Client
	logger      *logrus.Entry
	positiveTTL time.Duration
	negativeTTL time.Duration
}

// New creates a Cache. client may be nil.
func New(client *redis.Client, logger *logrus.Entry, positiveTTL, negativeTTL time.Duration) *Cache {
	if positiveTTL <= 0 {
		positiveTTL = time.Hour
	}
	if negativeTTL <= 0 {
		negativeTTL = time.Minute
	}
	return &Cache{
		client:      client,
		logger:      logger.WithField("component", "domain-cache"),
		positiveTTL: positiveTTL,
		negativeTTL: negativeTTL,
	}
}

// Get looks up a hostname. Backend errors degrade to Miss.
func (c *Cache) Get(ctx context.Context, hostname string) (*Mapping, Outcome) {
	if c.client == nil {
		return nil, Miss
	}

	val, err := c.client.Get(ctx, keyPrefix+hostname).Result()
	if err == redis.Nil {
		return nil, Miss
	}
	if err != nil {
		c.logger.WithError(err).Warn("cache get failed, treating as miss")
		return nil, Miss
	}

	if val == negativeSentinel {
		return nil, Negative
	}

	var m Mapping
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		c.logger.WithError(err).WithField("hostname", hostname).Warn("corrupt cache entry, treating as miss")
		return nil, Miss
	}
	return &m, Hit
}

// SetPositive stores a resolved mapping. Errors are logged and swallowed.
func (c *Cache) SetPositive(ctx context.Context, hostname string, m *Mapping) {
	if c.client == nil || m == nil {
		return
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+hostname, payload, c.positiveTTL).Err(); err != nil {
		c.logger.WithError(err).WithField("hostname", hostname).Warn("cache set failed")
	}
}

// SetNegative records that a hostname is confirmed absent. The short TTL
// matters: "not found" is commonly transient while DNS propagates.
func (c *Cache) SetNegative(ctx context.Context, hostname string) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+hostname, negativeSentinel, c.negativeTTL).Err(); err != nil {
		c.logger.WithError(err).WithField("hostname", hostname).Warn("cache set-negative failed")
	}
}

// Invalidate drops the entry for a hostname. Called by the lifecycle service
// on every state change before it reports success.
func (c *Cache) Invalidate(ctx context.Context, hostname string) {
	if c.client == nil || hostname == "" {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+hostname).Err(); err != nil {
		c.logger.WithError(err).WithField("hostname", hostname).Warn("cache invalidate failed")
	}
}
