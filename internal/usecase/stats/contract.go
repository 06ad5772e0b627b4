package stats

import "context"

// Repository defines the aggregation contract over the whole archive.
type Repository interface {
	CountMessages(ctx context.Context) (int64, error)
	CountDistinct(ctx context.Context, field string) (int64, error)
}
