package aggspec

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
)

// StatisticsProvider answers the bounds of a field over a saved search's data.
type StatisticsProvider interface {
	FieldStatistics(ctx context.Context, field string) (Stats, error)
}

// Subscriber receives every published snapshot of a saved search.
type Subscriber func(ctx context.Context, searchID string, snapshot []Aggregation) error

// statsAdapter wraps a public StatisticsProvider to satisfy the editor contract.
type statsAdapter struct {
	inner StatisticsProvider
}

func (a *statsAdapter) FieldStatistics(ctx context.Context, field string) (interval.Stats, error) {
	s, err := a.inner.FieldStatistics(ctx, field)
	if err != nil {
		return interval.Stats{}, fmt.Errorf("field statistics: %w", err)
	}
	return statsToDomain(s), nil
}

// fanout publishes to every publisher and reports the first failure.
type fanout []editoruc.Publisher

func (f fanout) Publish(ctx context.Context, searchID string, snapshot []aggregation.Node) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, searchID, snapshot); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func subscriberPublisher(s Subscriber) editoruc.Publisher {
	return editoruc.PublisherFunc(func(ctx context.Context, searchID string, snapshot []aggregation.Node) error {
		return s(ctx, searchID, aggregationsFromDomain(snapshot))
	})
}
