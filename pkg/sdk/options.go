package msgsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cloudID   string
	username  string
	password  string
	addresses []string

	indices  []string
	pageSize int
	timeout  time.Duration

	discordTokens []string

	cacheDriver   string // "valkey" or "redis"
	cacheAddrs    []string
	cachePassword string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticCloud connects to a hosted Elasticsearch deployment.
func WithElasticCloud(cloudID, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cloudID = cloudID
		c.username = username
		c.password = password
	})
}

// WithElasticAddresses connects to explicit cluster nodes instead of a cloud id.
func WithElasticAddresses(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addresses = addrs
	})
}

// WithIndices sets the partitions every query spans.
// Default: chunk1..chunk30.
func WithIndices(indices ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indices = indices
	})
}

// WithPageSize sets the number of messages per page. Default: 100.
func WithPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = size
	})
}

// WithSearchTimeout bounds each backend search. Default: 60s.
func WithSearchTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithDiscordTokens sets the bot tokens used round-robin for user lookups.
// Without tokens every user resolves to a fallback identity.
func WithDiscordTokens(tokens ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.discordTokens = tokens
	})
}

// WithValkey shares the user cache through a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithRedis shares the user cache through a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
