package db

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SearchBuilder is a fluent builder for search queries.
type SearchBuilder struct {
	q SearchQuery
}

// NewSearch starts building a query over the given index partitions.
func NewSearch(indices ...string) *SearchBuilder {
	return &SearchBuilder{
		q: SearchQuery{Indices: append([]string(nil), indices...)},
	}
}

// Phrase adds an exact-phrase clause. Empty values are skipped.
func (b *SearchBuilder) Phrase(field, value string) *SearchBuilder {
	if value == "" {
		return b
	}
	b.q.Must = append(b.q.Must, Clause{Kind: ClausePhrase, Field: field, Value: value})
	return b
}

// Term adds an exact-value clause. Empty values are skipped.
func (b *SearchBuilder) Term(field, value string) *SearchBuilder {
	if value == "" {
		return b
	}
	b.q.Must = append(b.q.Must, Clause{Kind: ClauseTerm, Field: field, Value: value})
	return b
}

// SortBy sets the single sort key.
func (b *SearchBuilder) SortBy(field string, order SortOrder) *SearchBuilder {
	b.q.SortField = field
	b.q.SortOrder = order
	return b
}

// Page sets the hit offset and page size.
func (b *SearchBuilder) Page(from, size int) *SearchBuilder {
	b.q.From = from
	b.q.Size = size
	return b
}

// TrackTotalHits requests an exact total beyond the default counting ceiling.
func (b *SearchBuilder) TrackTotalHits() *SearchBuilder {
	b.q.TrackTotalHits = true
	return b
}

// Timeout sets the backend-side search timeout (0 = backend default).
func (b *SearchBuilder) Timeout(d time.Duration) *SearchBuilder {
	b.q.Timeout = d
	return b
}

// Build validates and returns the query. With no clauses the query matches everything.
func (b *SearchBuilder) Build() (*SearchQuery, error) {
	if len(b.q.Indices) == 0 {
		return nil, ErrNoIndices
	}
	for _, idx := range b.q.Indices {
		if strings.TrimSpace(idx) == "" {
			return nil, errors.New("index name must not be empty")
		}
	}
	if b.q.From < 0 {
		return nil, fmt.Errorf("from must be >= 0, got %d", b.q.From)
	}
	if b.q.Size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", b.q.Size)
	}
	if b.q.SortField != "" && b.q.SortOrder != SortAsc && b.q.SortOrder != SortDesc {
		return nil, fmt.Errorf("unknown sort order %q", b.q.SortOrder)
	}

	q := b.q
	q.Must = append([]Clause(nil), b.q.Must...)
	if len(q.Must) == 0 {
		q.Must = []Clause{{Kind: ClauseMatchAll}}
	}
	return &q, nil
}

// MustBuild calls Build and panics on error.
func (b *SearchBuilder) MustBuild() *SearchQuery {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

// String returns a compact debug representation of the query.
func (q *SearchQuery) String() string {
	clauses := make([]string, 0, len(q.Must))
	for _, c := range q.Must {
		if c.Kind == ClauseMatchAll {
			clauses = append(clauses, "match_all")
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s(%s=%q)", c.Kind, c.Field, c.Value))
	}
	s := fmt.Sprintf("[%s] %s", strings.Join(q.Indices, ","), strings.Join(clauses, " AND "))
	if q.SortField != "" {
		s += fmt.Sprintf(" SORT %s %s", q.SortField, q.SortOrder)
	}
	return s + fmt.Sprintf(" FROM %d SIZE %d", q.From, q.Size)
}
