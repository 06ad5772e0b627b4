package message

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/page"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
)

// store is the consumer interface for message search (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Count(ctx context.Context, indices []string) (int64, error)
	Cardinality(ctx context.Context, indices []string, field string) (int64, error)
}

// Config describes the partition set and paging policy.
type Config struct {
	Indices         []string
	PageSize        int
	Timeout         time.Duration
	MaxResultWindow int // 0 = page.DefaultMaxResultWindow
}

// Repo implements usecase/search.Repository and usecase/stats.Repository.
type Repo struct {
	store     store
	indices   []string
	pageSize  int
	timeout   time.Duration
	maxWindow int
}

// New creates a message repository.
func New(s store, cfg Config) *Repo {
	if cfg.MaxResultWindow <= 0 {
		cfg.MaxResultWindow = page.DefaultMaxResultWindow
	}
	return &Repo{
		store:     s,
		indices:   append([]string(nil), cfg.Indices...),
		pageSize:  cfg.PageSize,
		timeout:   cfg.Timeout,
		maxWindow: cfg.MaxResultWindow,
	}
}

// MaxResultWindow returns the deepest offset+size a search may reach.
func (r *Repo) MaxResultWindow() int { return r.maxWindow }

// PageSize returns the fixed number of messages per page.
func (r *Repo) PageSize() int { return r.pageSize }

// Indices returns the partitions every query spans.
func (r *Repo) Indices() []string { return append([]string(nil), r.indices...) }

// Search returns one page of messages matching f and the exact total.
func (r *Repo) Search(ctx context.Context, f filter.Filter) ([]result.Message, int, error) {
	q, err := BuildQuery(f, r.indices, r.pageSize)
	if err != nil {
		return nil, 0, err
	}
	q.Timeout = r.timeout

	sr, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", q, err)
	}

	msgs, err := parseHits(sr.Hits)
	if err != nil {
		return nil, 0, err
	}
	return msgs, sr.Total, nil
}

// CountMessages returns the number of stored messages across all partitions.
func (r *Repo) CountMessages(ctx context.Context) (int64, error) {
	n, err := r.store.Count(ctx, r.indices)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

// CountDistinct returns the approximate number of distinct values of field.
func (r *Repo) CountDistinct(ctx context.Context, field string) (int64, error) {
	n, err := r.store.Cardinality(ctx, r.indices, field)
	if err != nil {
		return 0, fmt.Errorf("count distinct %s: %w", field, err)
	}
	return n, nil
}
