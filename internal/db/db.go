package db

import (
	"context"
	"time"
)

// SearchStore is the search backend facade combining all sub-interfaces.
type SearchStore interface {
	Pinger
	Searcher
	Aggregator
	WindowManager
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// CacheStore is the shared key-value cache facade.
type CacheStore interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs paginated bool queries across index partitions.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}

// Aggregator provides corpus-wide counting operations.
type Aggregator interface {
	Count(ctx context.Context, indices []string) (int64, error)
	Cardinality(ctx context.Context, indices []string, field string) (int64, error)
}

// WindowManager configures how deep a paginated search may reach.
type WindowManager interface {
	EnsureResultWindow(ctx context.Context, indices []string, window int) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
