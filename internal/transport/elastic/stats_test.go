package elastic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type mockSearcher struct {
	body     map[string]any
	response string
	err      error
}

func (m *mockSearcher) Search(_ context.Context, body map[string]any) (*esapi.Response, error) {
	m.body = body
	if m.err != nil {
		return nil, m.err
	}
	return &esapi.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     http.Header{},
	}, nil
}

func TestFieldStatistics(t *testing.T) {
	ms := &mockSearcher{response: `{
		"aggregations": {
			"price": {"count": 12, "min": 3.5, "max": 1003.5, "avg": 50, "sum": 600}
		}
	}`}
	p := NewStatsProvider(ms)

	stats, err := p.FieldStatistics(context.Background(), "price")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Field != "price" || stats.Min != 3.5 || stats.Max != 1003.5 {
		t.Errorf("unexpected stats %+v", stats)
	}

	aggs := ms.body["aggs"].(map[string]any)
	priceAgg := aggs["price"].(map[string]any)
	if priceAgg["stats"].(map[string]any)["field"] != "price" {
		t.Errorf("unexpected request body %v", ms.body)
	}
}

func TestFieldStatistics_ReportsAnsweredField(t *testing.T) {
	ms := &mockSearcher{response: `{"aggregations": {"other": {"count": 1, "min": 1, "max": 2}}}`}
	p := NewStatsProvider(ms)

	stats, err := p.FieldStatistics(context.Background(), "price")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Field != "other" {
		t.Errorf("expected answered field to be reported, got %q", stats.Field)
	}
}

func TestFieldStatistics_Errors(t *testing.T) {
	tests := []struct {
		name string
		ms   *mockSearcher
	}{
		{"transport", &mockSearcher{err: errors.New("connection refused")}},
		{"bad json", &mockSearcher{response: `{"aggregations":`}},
		{"no values", &mockSearcher{response: `{"aggregations": {"price": {"count": 0, "min": null, "max": null}}}`}},
		{"missing aggregation", &mockSearcher{response: `{"aggregations": {}}`}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStatsProvider(tc.ms).FieldStatistics(context.Background(), "price"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
