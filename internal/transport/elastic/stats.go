package elastic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
)

// searcher is the consumer interface for search requests. *Client satisfies it.
type searcher interface {
	Search(ctx context.Context, body map[string]any) (*esapi.Response, error)
}

// StatsProvider computes field bounds with an Elasticsearch stats aggregation.
type StatsProvider struct {
	searcher searcher
}

// NewStatsProvider creates a statistics provider.
func NewStatsProvider(s searcher) *StatsProvider {
	return &StatsProvider{searcher: s}
}

// statsAggregation is the stats aggregation result; bounds are null on empty fields.
type statsAggregation struct {
	Count int64    `json:"count"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

type statsResponse struct {
	Aggregations map[string]statsAggregation `json:"aggregations"`
}

// FieldStatistics returns min and max of field. The aggregation is keyed by
// field name so the response identifies the field it answers for.
func (p *StatsProvider) FieldStatistics(ctx context.Context, field string) (interval.Stats, error) {
	body := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			field: map[string]any{
				"stats": map[string]any{"field": field},
			},
		},
	}

	res, err := p.searcher.Search(ctx, body)
	if err != nil {
		return interval.Stats{}, fmt.Errorf("stats of %q: %w", field, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	var parsed statsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return interval.Stats{}, fmt.Errorf("decode stats of %q: %w", field, err)
	}
	if len(parsed.Aggregations) != 1 {
		return interval.Stats{}, fmt.Errorf("stats of %q: expected one aggregation, got %d", field, len(parsed.Aggregations))
	}

	for name, agg := range parsed.Aggregations {
		if agg.Count == 0 || agg.Min == nil || agg.Max == nil {
			return interval.Stats{}, fmt.Errorf("stats of %q: field has no values", field)
		}
		return interval.Stats{Field: name, Min: *agg.Min, Max: *agg.Max}, nil
	}
	return interval.Stats{}, nil
}
