package elastic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/kailas-cloud/msgsearch/internal/db"
)

// Responses reach us in one of two shapes: the flat REST body, or the same
// payload nested under "body" (as produced by some client wrappers and
// proxies). Every decode goes through envelope so no caller has to care.
type envelope struct {
	payload
	Body *payload `json:"body"`
}

type payload struct {
	Hits         *hitsSection           `json:"hits"`
	Aggregations map[string]aggregation `json:"aggregations"`
	Count        *int64                 `json:"count"`
}

type hitsSection struct {
	Total json.RawMessage `json:"total"`
	Hits  []rawHit        `json:"hits"`
}

type rawHit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type aggregation struct {
	Value *float64 `json:"value"`
}

type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func (p *payload) isEmpty() bool {
	return p.Hits == nil && p.Aggregations == nil && p.Count == nil
}

// unwrap returns the flat payload when present, otherwise the nested one.
func (e *envelope) unwrap() *payload {
	if !e.payload.isEmpty() || e.Body == nil {
		return &e.payload
	}
	return e.Body
}

func decodeEnvelope(r io.Reader) (*payload, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", db.ErrMalformedReply, err)
	}
	return env.unwrap(), nil
}

// DecodeSearch normalizes a search response into a db.SearchResult.
func DecodeSearch(r io.Reader) (*db.SearchResult, error) {
	p, err := decodeEnvelope(r)
	if err != nil {
		return nil, err
	}
	if p.Hits == nil {
		return nil, fmt.Errorf("%w: missing hits section", db.ErrMalformedReply)
	}

	total, err := parseTotal(p.Hits.Total)
	if err != nil {
		return nil, err
	}

	hits := make([]db.Hit, len(p.Hits.Hits))
	for i, h := range p.Hits.Hits {
		hits[i] = db.Hit{Index: h.Index, ID: h.ID, Source: h.Source}
	}
	return &db.SearchResult{Total: total, Hits: hits}, nil
}

// DecodeCount extracts the document count from a count response.
func DecodeCount(r io.Reader) (int64, error) {
	p, err := decodeEnvelope(r)
	if err != nil {
		return 0, err
	}
	if p.Count == nil {
		return 0, fmt.Errorf("%w: missing count", db.ErrMalformedReply)
	}
	return *p.Count, nil
}

// DecodeAggregationValue extracts a single-value metric aggregation by name.
// A present aggregation with a null value counts as 0.
func DecodeAggregationValue(r io.Reader, name string) (int64, error) {
	p, err := decodeEnvelope(r)
	if err != nil {
		return 0, err
	}
	agg, ok := p.Aggregations[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing aggregation %q", db.ErrMalformedReply, name)
	}
	if agg.Value == nil {
		return 0, nil
	}
	return int64(math.Round(*agg.Value)), nil
}

// parseTotal accepts a bare integer, an object with a "value" field, or nothing (0).
func parseTotal(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var obj struct {
		Value *int `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("%w: hits.total: %s", db.ErrMalformedReply, string(raw))
	}
	if obj.Value == nil {
		return 0, nil
	}
	return *obj.Value, nil
}

func errorReason(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || eb.Error.Reason == "" {
		return ""
	}
	if eb.Error.Type != "" {
		return eb.Error.Type + ": " + eb.Error.Reason
	}
	return eb.Error.Reason
}
