package message

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/msgsearch/internal/db"
	"github.com/kailas-cloud/msgsearch/internal/domain/search/filter"
)

func TestSearch_ParsesHits(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ *db.SearchQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 2,
			Hits: []db.Hit{
				{Index: "chunk1", ID: "doc-1", Source: json.RawMessage(`{
					"message_id":"111","content":"hello world","author_id":"123",
					"channel_id":"456","guild_id":"789","timestamp":"2021-05-01T10:00:00.000Z"}`)},
				{Index: "chunk2", ID: "doc-2", Source: json.RawMessage(`{
					"content":"hi","author_id":123456789012345678,"channel_id":"1","guild_id":"2"}`)},
			},
		}, nil
	}

	msgs, total, err := repo.Search(context.Background(), mustFilter(t, "hello", "", "", "", filter.Desc, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(msgs) != 2 {
		t.Fatalf("total/len = %d/%d", total, len(msgs))
	}
	if msgs[0].ID() != "111" || msgs[0].AuthorID() != "123" || msgs[0].Timestamp() != "2021-05-01T10:00:00.000Z" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].ID() != "doc-2" {
		t.Errorf("ID() = %q, want hit id fallback", msgs[1].ID())
	}
	if msgs[1].AuthorID() != "123456789012345678" {
		t.Errorf("numeric author id = %q", msgs[1].AuthorID())
	}
}

func TestSearch_PassesTimeoutAndPageSize(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, Config{Indices: testIndices, PageSize: 25, Timeout: 60 * time.Second})

	var got *db.SearchQuery
	ms.searchFn = func(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{}, nil
	}

	if _, _, err := repo.Search(context.Background(), mustFilter(t, "", "1", "", "", filter.Desc, 2)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got.Timeout != 60*time.Second {
		t.Errorf("timeout = %v", got.Timeout)
	}
	if got.From != 25 || got.Size != 25 {
		t.Errorf("from/size = %d/%d, want 25/25", got.From, got.Size)
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ *db.SearchQuery) (*db.SearchResult, error) {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrBackendRejected}
	}

	_, _, err := repo.Search(context.Background(), mustFilter(t, "x", "", "", "", filter.Desc, 1))
	if !errors.Is(err, db.ErrBackendRejected) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestSearch_MalformedSource(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, _ *db.SearchQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Hits: []db.Hit{
			{Index: "chunk1", ID: "x", Source: json.RawMessage(`{"author_id":true}`)},
		}}, nil
	}

	if _, _, err := repo.Search(context.Background(), mustFilter(t, "x", "", "", "", filter.Desc, 1)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestCountMessages(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.countFn = func(_ context.Context, indices []string) (int64, error) {
		if len(indices) != len(testIndices) {
			t.Errorf("indices = %v", indices)
		}
		return 5000, nil
	}

	n, err := repo.CountMessages(context.Background())
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if n != 5000 {
		t.Errorf("n = %d", n)
	}
}

func TestCountDistinct(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.cardinalityFn = func(_ context.Context, _ []string, field string) (int64, error) {
		if field == FieldGuildID {
			return 0, errors.New("shard failure")
		}
		return 87, nil
	}

	n, err := repo.CountDistinct(context.Background(), FieldAuthorID)
	if err != nil || n != 87 {
		t.Errorf("author_id: n=%d err=%v", n, err)
	}
	if _, err := repo.CountDistinct(context.Background(), FieldGuildID); err == nil {
		t.Error("expected error for guild_id")
	}
}

func TestNew_CopiesIndices(t *testing.T) {
	src := []string{"a", "b"}
	repo := New(&mockStore{}, Config{Indices: src, PageSize: 10})
	src[0] = "mutated"

	if repo.Indices()[0] != "a" {
		t.Error("repo must not alias caller's slice")
	}
}

func TestNew_MaxResultWindow(t *testing.T) {
	if got := New(&mockStore{}, Config{PageSize: 10}).MaxResultWindow(); got != 1_000_000 {
		t.Errorf("default MaxResultWindow = %d, want 1000000", got)
	}
	if got := New(&mockStore{}, Config{PageSize: 10, MaxResultWindow: 50_000}).MaxResultWindow(); got != 50_000 {
		t.Errorf("MaxResultWindow = %d, want 50000", got)
	}
}
