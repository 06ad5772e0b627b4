package msgsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
)

// MessageService searches archived messages.
type MessageService struct {
	svc searchUseCase
	obs *observer
}

// Search returns one page of messages matching q, sorted by timestamp.
// A query without any constraint returns an empty page without touching the backend.
func (s *MessageService) Search(ctx context.Context, q Query) (out SearchPage, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("messages.search", start, err, "page", out.Page, "total", out.Total)
		s.obs.returned(len(out.Messages))
	}()

	f, err := filter.New(q.Content, q.AuthorID, q.ChannelID, q.GuildID, filter.Sort(q.Sort), q.Page)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	if f.IsEmpty() {
		p := result.Empty(f.Page())
		return pageFromDomain(&p), nil
	}

	p, err := s.svc.Search(ctx, f)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}
	return pageFromDomain(&p), nil
}

// UserService resolves author ids to display identities.
type UserService struct {
	svc   userUseCase
	token string
	obs   *observer
}

// WithToken returns a UserService that looks users up with the given bot
// token instead of the configured rotation.
func (s *UserService) WithToken(token string) *UserService {
	return &UserService{svc: s.svc, token: token, obs: s.obs}
}

// Get resolves one user. Directory failures yield a fallback identity;
// only a malformed id returns ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (_ User, err error) {
	start := time.Now()
	defer func() { s.obs.observe("users.get", start, err) }()

	u, err := s.svc.Resolve(ctx, id, s.token)
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return userFromDomain(&u), nil
}

// GetMany resolves distinct ids concurrently. Malformed ids are skipped.
func (s *UserService) GetMany(ctx context.Context, ids []string) []User {
	start := time.Now()
	defer func() { s.obs.observe("users.get_many", start, nil) }()

	resolved := s.svc.ResolveMany(ctx, ids, s.token)
	out := make([]User, len(resolved))
	for i := range resolved {
		out[i] = userFromDomain(&resolved[i])
	}
	return out
}
