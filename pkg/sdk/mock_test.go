package msgsearch

import (
	"context"

	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/result"
	domstats "github.com/kailas-cloud/msgsearch/internal/domain/stats"
	domuser "github.com/kailas-cloud/msgsearch/internal/domain/user"
	healthuc "github.com/kailas-cloud/msgsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, f filter.Filter) (result.Page, error)
}

func (m *mockSearchUC) Search(ctx context.Context, f filter.Filter) (result.Page, error) {
	return m.searchFn(ctx, f)
}

// --- statsUseCase mock ---

type mockStatsUC struct {
	statsFn func(ctx context.Context) (domstats.Statistics, error)
}

func (m *mockStatsUC) Statistics(ctx context.Context) (domstats.Statistics, error) {
	return m.statsFn(ctx)
}

// --- userUseCase mock ---

type mockUserUC struct {
	resolveFn     func(ctx context.Context, id, token string) (domuser.User, error)
	resolveManyFn func(ctx context.Context, ids []string, token string) []domuser.User
}

func (m *mockUserUC) Resolve(ctx context.Context, id, token string) (domuser.User, error) {
	return m.resolveFn(ctx, id, token)
}

func (m *mockUserUC) ResolveMany(ctx context.Context, ids []string, token string) []domuser.User {
	return m.resolveManyFn(ctx, ids, token)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(
	searchSvc searchUseCase,
	statsSvc statsUseCase,
	userSvc userUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		searchSvc: searchSvc,
		statsSvc:  statsSvc,
		userSvc:   userSvc,
		healthSvc: healthSvc,
	}
}
