package editor

import (
	"context"

	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
)

// StatisticsProvider computes numeric bounds of a field over the saved search's data.
type StatisticsProvider interface {
	FieldStatistics(ctx context.Context, field string) (interval.Stats, error)
}

// PropertyCatalog resolves field identifiers to catalog properties.
type PropertyCatalog interface {
	Property(field string) (property.Property, bool)
}

// Publisher receives every snapshot of a saved search's aggregation tree.
type Publisher interface {
	Publish(ctx context.Context, searchID string, snapshot []aggregation.Node) error
}

// Loader returns the stored aggregation specification of a saved search.
// A search without one yields domain.ErrNotFound.
type Loader interface {
	Load(ctx context.Context, searchID string) ([]aggregation.Node, error)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, searchID string, snapshot []aggregation.Node) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, searchID string, snapshot []aggregation.Node) error {
	return f(ctx, searchID, snapshot)
}
