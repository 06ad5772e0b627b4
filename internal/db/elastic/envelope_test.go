package elastic

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/msgsearch/internal/db"
)

const flatSearch = `{
  "took": 3,
  "hits": {
    "total": {"value": 250, "relation": "eq"},
    "hits": [
      {"_index": "chunk3", "_id": "a", "_source": {"content": "hello world", "author_id": "123"}},
      {"_index": "chunk7", "_id": "b", "_source": {"content": "hello there", "author_id": "456"}}
    ]
  }
}`

func TestDecodeSearch_FlatAndWrappedAgree(t *testing.T) {
	flat, err := DecodeSearch(strings.NewReader(flatSearch))
	if err != nil {
		t.Fatalf("flat: %v", err)
	}
	wrapped, err := DecodeSearch(strings.NewReader(`{"body":` + flatSearch + `,"statusCode":200}`))
	if err != nil {
		t.Fatalf("wrapped: %v", err)
	}

	if flat.Total != 250 || wrapped.Total != 250 {
		t.Errorf("totals = %d / %d, want 250", flat.Total, wrapped.Total)
	}
	if len(flat.Hits) != 2 || len(wrapped.Hits) != 2 {
		t.Fatalf("hits = %d / %d, want 2", len(flat.Hits), len(wrapped.Hits))
	}
	for i := range flat.Hits {
		if flat.Hits[i].ID != wrapped.Hits[i].ID || flat.Hits[i].Index != wrapped.Hits[i].Index {
			t.Errorf("hit %d differs: %+v vs %+v", i, flat.Hits[i], wrapped.Hits[i])
		}
		if string(flat.Hits[i].Source) != string(wrapped.Hits[i].Source) {
			t.Errorf("hit %d source differs", i)
		}
	}
}

func TestDecodeSearch_TotalShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare integer", `{"hits":{"total":42,"hits":[]}}`, 42},
		{"object", `{"hits":{"total":{"value":7,"relation":"gte"},"hits":[]}}`, 7},
		{"absent", `{"hits":{"hits":[]}}`, 0},
		{"null", `{"hits":{"total":null,"hits":[]}}`, 0},
		{"object without value", `{"hits":{"total":{},"hits":[]}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeSearch(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Total != tt.want {
				t.Errorf("Total = %d, want %d", res.Total, tt.want)
			}
			if res.Hits == nil {
				t.Error("Hits must be non-nil")
			}
		})
	}
}

func TestDecodeSearch_MissingHits(t *testing.T) {
	for _, body := range []string{`{}`, `{"body":{}}`, `{"took":1}`} {
		_, err := DecodeSearch(strings.NewReader(body))
		if !errors.Is(err, db.ErrMalformedReply) {
			t.Errorf("%s: expected ErrMalformedReply, got %v", body, err)
		}
	}
}

func TestDecodeSearch_InvalidJSON(t *testing.T) {
	_, err := DecodeSearch(strings.NewReader(`{"hits":`))
	if !errors.Is(err, db.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}

func TestDecodeSearch_BadTotal(t *testing.T) {
	_, err := DecodeSearch(strings.NewReader(`{"hits":{"total":"many","hits":[]}}`))
	if !errors.Is(err, db.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}

func TestDecodeCount(t *testing.T) {
	for _, body := range []string{`{"count":1234}`, `{"body":{"count":1234}}`} {
		n, err := DecodeCount(strings.NewReader(body))
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if n != 1234 {
			t.Errorf("%s: count = %d", body, n)
		}
	}

	if _, err := DecodeCount(strings.NewReader(`{}`)); !errors.Is(err, db.ErrMalformedReply) {
		t.Errorf("expected ErrMalformedReply, got %v", err)
	}
}

func TestDecodeAggregationValue(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{"flat", `{"hits":{"total":0,"hits":[]},"aggregations":{"distinct":{"value":87}}}`, 87},
		{"wrapped", `{"body":{"aggregations":{"distinct":{"value":12}}}}`, 12},
		{"null value", `{"aggregations":{"distinct":{"value":null}}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := DecodeAggregationValue(strings.NewReader(tt.body), "distinct")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != tt.want {
				t.Errorf("value = %d, want %d", n, tt.want)
			}
		})
	}

	_, err := DecodeAggregationValue(strings.NewReader(`{"aggregations":{}}`), "distinct")
	if !errors.Is(err, db.ErrMalformedReply) {
		t.Errorf("expected ErrMalformedReply, got %v", err)
	}
}

func TestErrorReason(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":{"type":"index_not_found_exception","reason":"no such index [chunk31]"},"status":404}`,
			"index_not_found_exception: no such index [chunk31]"},
		{`{"error":{"reason":"boom"}}`, "boom"},
		{`{"error":"plain string"}`, ""},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := errorReason([]byte(tt.body)); got != tt.want {
			t.Errorf("errorReason(%s) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
