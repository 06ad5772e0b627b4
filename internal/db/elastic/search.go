package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/msgsearch/internal/db"
)

const cardinalityAggName = "distinct"

// Search runs a paginated bool query across all given partitions in a single request.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if len(q.Indices) == 0 {
		return nil, &db.Error{Op: db.OpSearch, Err: db.ErrNoIndices}
	}

	body, err := json.Marshal(q.Source())
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("encode query: %w", err)}
	}

	req := esapi.SearchRequest{
		Index: q.Indices,
		Body:  bytes.NewReader(body),
	}
	if q.Timeout > 0 {
		req.Timeout = q.Timeout
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	defer closeBody(res)

	if err := checkResponse(db.OpSearch, res); err != nil {
		return nil, err
	}

	sr, err := DecodeSearch(res.Body)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	return sr, nil
}

// Count returns the number of documents across all given partitions.
func (s *Store) Count(ctx context.Context, indices []string) (int64, error) {
	if len(indices) == 0 {
		return 0, &db.Error{Op: db.OpCount, Err: db.ErrNoIndices}
	}

	res, err := esapi.CountRequest{Index: indices}.Do(ctx, s.client)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	defer closeBody(res)

	if err := checkResponse(db.OpCount, res); err != nil {
		return 0, err
	}

	n, err := DecodeCount(res.Body)
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

// Cardinality returns the approximate number of distinct values of field.
func (s *Store) Cardinality(ctx context.Context, indices []string, field string) (int64, error) {
	if len(indices) == 0 {
		return 0, &db.Error{Op: db.OpCardinality, Err: db.ErrNoIndices}
	}

	body, err := json.Marshal(map[string]any{
		"size": 0,
		"aggs": map[string]any{
			cardinalityAggName: map[string]any{
				"cardinality": map[string]any{"field": field},
			},
		},
	})
	if err != nil {
		return 0, &db.Error{Op: db.OpCardinality, Err: fmt.Errorf("encode aggregation: %w", err)}
	}

	res, err := esapi.SearchRequest{Index: indices, Body: bytes.NewReader(body)}.Do(ctx, s.client)
	if err != nil {
		return 0, &db.Error{Op: db.OpCardinality, Err: err}
	}
	defer closeBody(res)

	if err := checkResponse(db.OpCardinality, res); err != nil {
		return 0, err
	}

	n, err := DecodeAggregationValue(res.Body, cardinalityAggName)
	if err != nil {
		return 0, &db.Error{Op: db.OpCardinality, Err: fmt.Errorf("%s: %w", field, err)}
	}
	return n, nil
}

// EnsureResultWindow raises index.max_result_window on every partition so that
// deep pages (from+size beyond the 10k default) stay reachable.
func (s *Store) EnsureResultWindow(ctx context.Context, indices []string, window int) error {
	if len(indices) == 0 {
		return &db.Error{Op: db.OpPutSettings, Err: db.ErrNoIndices}
	}
	if window <= 0 {
		return &db.Error{Op: db.OpPutSettings, Err: fmt.Errorf("window must be positive, got %d", window)}
	}

	body := []byte(`{"index":{"max_result_window":` + strconv.Itoa(window) + `}}`)
	res, err := esapi.IndicesPutSettingsRequest{
		Index: indices,
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return &db.Error{Op: db.OpPutSettings, Err: err}
	}
	defer closeBody(res)

	return checkResponse(db.OpPutSettings, res)
}
