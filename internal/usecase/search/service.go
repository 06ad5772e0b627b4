package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/msgsearch/internal/domain"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/page"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
	"github.com/kailas-cloud/msgsearch/internal/logger"
	"github.com/kailas-cloud/msgsearch/internal/metrics"
)

// Service pages through archived messages.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search runs the filter against every partition and returns one page.
// has_more is derived from the page window and the exact total, never from the backend.
// Pages reaching past the result window yield *domain.ValidationError.
// Any backend failure yields *domain.SearchExecutionError and no partial result.
func (s *Service) Search(ctx context.Context, f filter.Filter) (result.Page, error) {
	w, err := page.New(f.Page(), s.repo.PageSize())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return result.Page{}, err
		}
		return result.Page{}, &domain.SearchExecutionError{Cause: err}
	}
	if err := w.CheckWithin(s.repo.MaxResultWindow()); err != nil {
		return result.Page{}, err
	}

	log := logger.FromContext(ctx)
	log.Debug("Searching messages",
		zap.String("content", f.Content()),
		zap.String("author_id", f.AuthorID()),
		zap.String("channel_id", f.ChannelID()),
		zap.String("guild_id", f.GuildID()),
		zap.String("sort", string(f.Sort())),
		zap.Int("page", f.Page()),
	)

	start := time.Now()
	msgs, total, err := s.repo.Search(ctx, f)
	metrics.ObserveBackend("search", time.Since(start).Seconds(), err)
	if err != nil {
		return result.Page{}, &domain.SearchExecutionError{Cause: fmt.Errorf("search messages: %w", err)}
	}
	metrics.SearchHitsTotal.Observe(float64(total))

	if len(msgs) > w.Size() {
		msgs = msgs[:w.Size()]
	}

	p := result.NewPage(msgs, total, w.Number(), w.HasMore(total))
	log.Debug("Search finished",
		zap.Int("total", total),
		zap.Int("returned", len(msgs)),
		zap.Bool("has_more", p.HasMore()),
		zap.Duration("took", time.Since(start)),
	)
	return p, nil
}
