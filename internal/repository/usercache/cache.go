// Package usercache keeps resolved and fallback author identities.
//
// Two in-process LRUs hold resolved identities (long TTL) and fallback
// identities (short TTL, so the directory is retried once it recovers).
// An optional shared key-value tier lets several replicas reuse lookups.
package usercache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/domain/user"
)

const keyPrefix = "msgsearch:user:"

// Defaults applied by New for zero config values.
const (
	DefaultCapacity    = 10_000
	DefaultFallbackTTL = 10 * time.Minute
)

// store is the consumer interface for the shared tier (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Config sets capacity and expiry. ResolvedTTL 0 means resolved entries
// live until evicted by capacity.
type Config struct {
	Capacity    int
	ResolvedTTL time.Duration
	FallbackTTL time.Duration
}

// Cache implements usecase/user.Cache.
type Cache struct {
	resolved    *expirable.LRU[string, user.User]
	fallback    *expirable.LRU[string, user.User]
	shared      store
	resolvedTTL time.Duration
	fallbackTTL time.Duration
	cacheTotal  *prometheus.CounterVec
	logger      *zap.Logger
}

// New creates a user cache. shared may be nil (memory only).
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(cfg Config, shared store, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.FallbackTTL <= 0 {
		cfg.FallbackTTL = DefaultFallbackTTL
	}
	return &Cache{
		resolved:    expirable.NewLRU[string, user.User](cfg.Capacity, nil, cfg.ResolvedTTL),
		fallback:    expirable.NewLRU[string, user.User](cfg.Capacity, nil, cfg.FallbackTTL),
		shared:      shared,
		resolvedTTL: cfg.ResolvedTTL,
		fallbackTTL: cfg.FallbackTTL,
		cacheTotal:  cacheTotal,
		logger:      logger,
	}
}

// Get returns a cached identity. Shared-tier failures degrade to a miss.
func (c *Cache) Get(ctx context.Context, id string) (user.User, bool) {
	if u, ok := c.resolved.Get(id); ok {
		c.inc("hit")
		return u, true
	}
	if u, ok := c.fallback.Get(id); ok {
		c.inc("hit")
		return u, true
	}

	if u, ok := c.getShared(ctx, id); ok {
		c.putMemory(u)
		c.inc("hit")
		return u, true
	}

	c.inc("miss")
	return user.User{}, false
}

// Put stores an identity under the TTL policy of its kind.
func (c *Cache) Put(ctx context.Context, u user.User) {
	c.putMemory(u)
	c.putShared(ctx, u)
}

// Len returns the number of in-process entries (resolved, fallback).
func (c *Cache) Len() (int, int) {
	return c.resolved.Len(), c.fallback.Len()
}

func (c *Cache) putMemory(u user.User) {
	if u.IsFallback() {
		c.fallback.Add(u.ID(), u)
		return
	}
	// A real identity supersedes an earlier fallback.
	c.fallback.Remove(u.ID())
	c.resolved.Add(u.ID(), u)
}

func (c *Cache) getShared(ctx context.Context, id string) (user.User, bool) {
	if c.shared == nil {
		return user.User{}, false
	}

	data, err := c.shared.Get(ctx, keyPrefix+id)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached user", zap.String("user_id", id), zap.Error(err))
		}
		return user.User{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.ID != id {
		c.logger.Warn("Dropping unreadable cached user", zap.String("user_id", id), zap.Error(err))
		// Left in place it would shadow every future lookup until it expires.
		if err := c.shared.Del(ctx, keyPrefix+id); err != nil {
			c.logger.Warn("Failed to drop cached user", zap.String("user_id", id), zap.Error(err))
		}
		return user.User{}, false
	}
	return e.toDomain(), true
}

func (c *Cache) putShared(ctx context.Context, u user.User) {
	if c.shared == nil {
		return
	}

	data, err := json.Marshal(fromDomain(u))
	if err != nil {
		c.logger.Warn("Failed to encode user", zap.String("user_id", u.ID()), zap.Error(err))
		return
	}

	ttl := c.resolvedTTL
	if u.IsFallback() {
		ttl = c.fallbackTTL
	}
	if err := c.shared.SetWithTTL(ctx, keyPrefix+u.ID(), data, ttl); err != nil {
		c.logger.Warn("Failed to cache user", zap.String("user_id", u.ID()), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
