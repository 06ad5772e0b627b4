package search

import (
	"context"

	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
)

// Repository defines the storage contract for message search.
type Repository interface {
	Search(ctx context.Context, f filter.Filter) ([]result.Message, int, error)
	PageSize() int
	MaxResultWindow() int
}
