package user

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/msgsearch/internal/domain"
	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
	"github.com/kailas-cloud/msgsearch/internal/logger"
	"github.com/kailas-cloud/msgsearch/internal/metrics"
)

// DefaultConcurrency bounds parallel directory lookups in ResolveMany.
const DefaultConcurrency = 8

// MaxIDLength bounds identifiers accepted for lookup.
const MaxIDLength = 64

// Service enriches author ids with display identities.
type Service struct {
	dir         Directory
	cache       Cache
	concurrency int
}

// New creates a user service. concurrency <= 0 uses DefaultConcurrency.
func New(dir Directory, cache Cache, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{dir: dir, cache: cache, concurrency: concurrency}
}

// Resolve returns the identity for id. Directory failures of any kind are
// absorbed into the deterministic fallback identity, which is cached like a
// real one. Only an empty id yields domain.ErrNotFound.
//
// Ids that are not snowflakes or exceed MaxIDLength never reach the directory
// ("@me" is a valid Discord path) and get an uncached fallback.
func (s *Service) Resolve(ctx context.Context, id, token string) (domuser.User, error) {
	if id == "" {
		return domuser.User{}, domain.ErrNotFound
	}
	if !isSnowflake(id) {
		metrics.UserLookupsTotal.WithLabelValues("fallback").Inc()
		return domuser.Fallback(id), nil
	}

	if u, ok := s.cache.Get(ctx, id); ok {
		return u, nil
	}

	u, err := s.dir.LookupUser(ctx, id, token)
	if err == nil {
		metrics.UserLookupsTotal.WithLabelValues("resolved").Inc()
		s.cache.Put(ctx, u)
		return u, nil
	}

	lookupErr := &domain.UserLookupError{UserID: id, Cause: err}
	log := logger.FromContext(ctx)
	switch {
	case errors.Is(err, domain.ErrNoCredentials):
		log.Debug("No directory credentials, using fallback identity", zap.String("user_id", id))
	case errors.Is(err, domain.ErrNotFound):
		metrics.UserLookupsTotal.WithLabelValues("not_found").Inc()
		log.Debug("User not in directory, using fallback identity", zap.String("user_id", id))
	default:
		log.Warn("User lookup failed, using fallback identity", zap.Error(lookupErr))
	}
	metrics.UserLookupsTotal.WithLabelValues("fallback").Inc()

	fb := domuser.Fallback(id)
	// A canceled request says nothing about the directory.
	if ctx.Err() == nil {
		s.cache.Put(ctx, fb)
	}
	return fb, nil
}

// ResolveMany resolves distinct ids concurrently, preserving first-seen order.
// Empty ids are skipped. Each other id independently yields a real or fallback identity.
func (s *Service) ResolveMany(ctx context.Context, ids []string, token string) []domuser.User {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	out := make([]domuser.User, len(unique))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range unique {
		g.Go(func() error {
			u, err := s.Resolve(ctx, id, token)
			if err != nil {
				u = domuser.Fallback(id)
			}
			out[i] = u
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func isSnowflake(id string) bool {
	if len(id) > MaxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
