package message

import (
	"context"
	"testing"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn      func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	countFn       func(ctx context.Context, indices []string) (int64, error)
	cardinalityFn func(ctx context.Context, indices []string, field string) (int64, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, indices []string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, indices)
	}
	return 0, nil
}

func (m *mockStore) Cardinality(ctx context.Context, indices []string, field string) (int64, error) {
	if m.cardinalityFn != nil {
		return m.cardinalityFn(ctx, indices, field)
	}
	return 0, nil
}

var testIndices = []string{"chunk1", "chunk2", "chunk3"}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Config{Indices: testIndices, PageSize: 100})
	return repo, ms
}

func mustFilter(t *testing.T, content, author, channel, guild string, sort filter.Sort, page int) filter.Filter {
	t.Helper()
	f, err := filter.New(content, author, channel, guild, sort, page)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return f
}
