package msgsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/msgsearch/internal/db/redis"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/page"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
	domstats "github.com/kailas-cloud/msgsearch/internal/domain/stats"
	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
	messagerepo "github.com/kailas-cloud/msgsearch/internal/repository/message"
	"github.com/kailas-cloud/msgsearch/internal/repository/usercache"
	"github.com/kailas-cloud/msgsearch/internal/transport/discord"
	healthuc "github.com/kailas-cloud/msgsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/msgsearch/internal/usecase/search"
	statsuc "github.com/kailas-cloud/msgsearch/internal/usecase/stats"
	useruc "github.com/kailas-cloud/msgsearch/internal/usecase/user"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultPartitions       = 30
	defaultIndexPrefix      = "chunk"
	defaultSearchTimeout    = 60 * time.Second
)

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, f filter.Filter) (result.Page, error)
}

type statsUseCase interface {
	Statistics(ctx context.Context) (domstats.Statistics, error)
}

type userUseCase interface {
	Resolve(ctx context.Context, id, token string) (domuser.User, error)
	ResolveMany(ctx context.Context, ids []string, token string) []domuser.User
}

// Client is the msgsearch SDK entry point.
type Client struct {
	store     db.SearchStore
	cache     db.CacheStore
	searchSvc searchUseCase
	statsSvc  statsUseCase
	userSvc   userUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the search backend.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("msgsearch: search backend not ready: %w", err)
	}

	cache, err := createCache(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	if cache != nil {
		if err := cache.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			cache.Close()
			store.Close()
			return nil, fmt.Errorf("msgsearch: cache not ready: %w", err)
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		store.Close()
		return nil, err
	}
	return wireClient(store, cache, cfg, obs)
}

func createStore(cfg *clientConfig) (db.SearchStore, error) {
	if cfg.cloudID == "" && len(cfg.addresses) == 0 {
		return nil, errors.New("msgsearch: search backend required (use WithElasticCloud or WithElasticAddresses)")
	}
	s, err := elastic.NewStore(elastic.Config{
		CloudID:   cfg.cloudID,
		Username:  cfg.username,
		Password:  cfg.password,
		Addresses: cfg.addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("msgsearch: create search store: %w", err)
	}
	return s, nil
}

// createCache returns a nil interface when no shared cache is configured.
func createCache(cfg *clientConfig) (db.CacheStore, error) {
	if len(cfg.cacheAddrs) == 0 {
		return nil, nil
	}
	switch cfg.cacheDriver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("msgsearch: create %s cache: %w", cfg.cacheDriver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("msgsearch: unknown cache driver %q", cfg.cacheDriver)
	}
}

func indexNames(cfg *clientConfig) []string {
	if len(cfg.indices) > 0 {
		return cfg.indices
	}
	names := make([]string, defaultPartitions)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", defaultIndexPrefix, i+1)
	}
	return names
}

func wireClient(store db.SearchStore, cache db.CacheStore, cfg *clientConfig, obs *observer) (*Client, error) {
	directory, err := discord.New(discord.Config{Tokens: cfg.discordTokens})
	if err != nil {
		return nil, fmt.Errorf("msgsearch: create directory client: %w", err)
	}

	pageSize := cfg.pageSize
	if pageSize <= 0 {
		pageSize = page.DefaultSize
	}
	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	repo := messagerepo.New(store, messagerepo.Config{
		Indices:  indexNames(cfg),
		PageSize: pageSize,
		Timeout:  timeout,
	})

	// Untyped nil keeps the cache memory-only; a typed nil would not compare equal.
	var (
		shared      db.KVStore
		cachePinger healthuc.Pinger
	)
	if cache != nil {
		shared = cache
		cachePinger = cache
	}
	users := usercache.New(usercache.Config{}, shared, nil, zap.NewNop())

	return &Client{
		store:     store,
		cache:     cache,
		searchSvc: searchuc.New(repo),
		statsSvc:  statsuc.New(repo, 0),
		userSvc:   useruc.New(directory, users, 0),
		healthSvc: healthuc.New(store, cachePinger, directory),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks search backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Messages returns the message search service.
func (c *Client) Messages() *MessageService {
	return &MessageService{svc: c.searchSvc, obs: c.obs}
}

// Users returns the author enrichment service.
func (c *Client) Users() *UserService {
	return &UserService{svc: c.userSvc, obs: c.obs}
}

// Stats returns archive-wide statistics.
func (c *Client) Stats(ctx context.Context) (_ Statistics, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", start, err) }()

	s, err := c.statsSvc.Statistics(ctx)
	if err != nil {
		return Statistics{}, fmt.Errorf("stats: %w", err)
	}
	return statsFromDomain(s), nil
}
