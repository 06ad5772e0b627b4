package db

import (
	"encoding/json"
	"time"
)

// ClauseKind is the kind of a bool-query leaf clause.
type ClauseKind string

const (
	// ClausePhrase requires the exact contiguous phrase in a text field.
	ClausePhrase ClauseKind = "match_phrase"
	// ClauseTerm requires an exact keyword value.
	ClauseTerm ClauseKind = "term"
	// ClauseMatchAll matches every document.
	ClauseMatchAll ClauseKind = "match_all"
)

// SortOrder is the direction of the sort key.
type SortOrder string

const (
	// SortAsc sorts oldest first.
	SortAsc SortOrder = "asc"
	// SortDesc sorts newest first.
	SortDesc SortOrder = "desc"
)

// Clause is a single conjunct of a bool query.
type Clause struct {
	Kind  ClauseKind
	Field string
	Value string
}

// SearchQuery is a conjunctive bool query with sort and paging, spanning index partitions.
type SearchQuery struct {
	Indices        []string
	Must           []Clause
	SortField      string
	SortOrder      SortOrder
	From           int
	Size           int
	TrackTotalHits bool
	Timeout        time.Duration
}

// SearchResult is the normalized output of a search.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Hit is a single document returned by a search.
type Hit struct {
	Index  string
	ID     string
	Source json.RawMessage
}

// Source renders the request body understood by the search backend.
// Indices and Timeout travel as request parameters, not in the body.
func (q *SearchQuery) Source() map[string]any {
	must := make([]any, 0, len(q.Must))
	for _, c := range q.Must {
		must = append(must, c.source())
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
		"from": q.From,
		"size": q.Size,
	}
	if q.SortField != "" {
		body["sort"] = []any{
			map[string]any{q.SortField: map[string]any{"order": string(q.SortOrder)}},
		}
	}
	if q.TrackTotalHits {
		body["track_total_hits"] = true
	}
	return body
}

func (c Clause) source() map[string]any {
	switch c.Kind {
	case ClausePhrase:
		return map[string]any{
			"match_phrase": map[string]any{c.Field: map[string]any{"query": c.Value}},
		}
	case ClauseTerm:
		return map[string]any{"term": map[string]any{c.Field: c.Value}}
	default:
		return map[string]any{"match_all": map[string]any{}}
	}
}
