package stats

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/msgsearch/internal/domain"
	domstats "github.com/kailas-cloud/msgsearch/internal/domain/stats"
	"github.com/kailas-cloud/msgsearch/internal/logger"
	"github.com/kailas-cloud/msgsearch/internal/metrics"
)

// Aggregation names reported in StatisticsError.
const (
	AggTotalMessages = "total_messages"
	AggUniqueUsers   = "unique_users"
	AggUniqueGuilds  = "unique_guilds"
)

// Fields counted for distinct values.
const (
	FieldAuthorID = "author_id"
	FieldGuildID  = "guild_id"
)

const memoKey = "stats"

// Service computes archive-wide statistics.
type Service struct {
	repo Repository
	memo *expirable.LRU[string, domstats.Statistics]
}

// New creates a statistics service. cacheTTL > 0 memoizes the last
// successful result for that long; 0 disables memoization.
func New(repo Repository, cacheTTL time.Duration) *Service {
	s := &Service{repo: repo}
	if cacheTTL > 0 {
		s.memo = expirable.NewLRU[string, domstats.Statistics](1, nil, cacheTTL)
	}
	return s
}

// Statistics runs the three aggregations concurrently. All must succeed;
// the first failure cancels the rest and yields *domain.StatisticsError.
func (s *Service) Statistics(ctx context.Context) (domstats.Statistics, error) {
	if s.memo != nil {
		if st, ok := s.memo.Get(memoKey); ok {
			return st, nil
		}
	}

	var st domstats.Statistics
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountMessages(gctx)
		if err != nil {
			return &domain.StatisticsError{Aggregation: AggTotalMessages, Cause: err}
		}
		st.TotalMessages = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountDistinct(gctx, FieldAuthorID)
		if err != nil {
			return &domain.StatisticsError{Aggregation: AggUniqueUsers, Cause: err}
		}
		st.UniqueUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := s.repo.CountDistinct(gctx, FieldGuildID)
		if err != nil {
			return &domain.StatisticsError{Aggregation: AggUniqueGuilds, Cause: err}
		}
		st.UniqueGuilds = n
		return nil
	})

	err := g.Wait()
	metrics.ObserveBackend("stats", time.Since(start).Seconds(), err)
	if err != nil {
		logger.FromContext(ctx).Warn("Statistics aggregation failed", zap.Error(err))
		return domstats.Statistics{}, err
	}

	if s.memo != nil {
		s.memo.Add(memoKey, st)
	}
	return st, nil
}
