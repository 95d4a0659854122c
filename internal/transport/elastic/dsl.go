package elastic

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
)

// AggName is the key a node renders under in an aggs body.
func AggName(n aggregation.Node) string {
	return "agg_" + strconv.FormatInt(n.ID, 10)
}

// Render turns an aggregation snapshot into a search request body with
// size 0 and one aggs entry per top-level node, children nested below.
func Render(nodes []aggregation.Node) (map[string]any, error) {
	aggs, err := renderList(nodes)
	if err != nil {
		return nil, err
	}
	return map[string]any{"size": 0, "aggs": aggs}, nil
}

func renderList(nodes []aggregation.Node) (map[string]any, error) {
	aggs := make(map[string]any, len(nodes))
	for _, n := range nodes {
		body, err := renderNode(n)
		if err != nil {
			return nil, err
		}
		aggs[AggName(n)] = body
	}
	return aggs, nil
}

func renderNode(n aggregation.Node) (map[string]any, error) {
	if !n.HasField() {
		return nil, fmt.Errorf("aggregation %d has no field: %w", n.ID, domain.ErrInvalidParameter)
	}

	var (
		name string
		spec = map[string]any{"field": n.Field}
	)
	switch n.Kind {
	case kind.Term:
		name = "terms"
		spec["size"] = intParam(n.Size, aggregation.DefaultSize)
		if n.Excluded != nil && *n.Excluded != "" {
			spec["exclude"] = *n.Excluded
		}
		order, err := childOrder(n.Children)
		if err != nil {
			return nil, err
		}
		if order != nil {
			spec["order"] = order
		}
	case kind.Histogram:
		width := intParam(n.Interval, int(interval.Default))
		if n.IsDate != nil && *n.IsDate {
			name = "date_histogram"
			spec["fixed_interval"] = strconv.Itoa(width) + "ms"
		} else {
			name = "histogram"
			spec["interval"] = width
		}
		if n.MinDocumentCount != nil {
			spec["min_doc_count"] = *n.MinDocumentCount
		}
	case kind.Geohash:
		name = "geohash_grid"
		spec["precision"] = n.PrecisionValue()
	case kind.Sum, kind.Avg, kind.Min, kind.Max:
		name = string(n.Kind)
	default:
		return nil, domain.NewUnknownKind(string(n.Kind))
	}

	body := map[string]any{name: spec}
	if len(n.Children) > 0 {
		children, err := renderList(n.Children)
		if err != nil {
			return nil, err
		}
		body["aggs"] = children
	}
	return body, nil
}

// childOrder orders term buckets by the first metric child carrying an orderBy.
// "asc" and "desc" sort by that child's value. Any other value is a field
// identifier and sorts descending by the metric child aggregating that field.
func childOrder(children []aggregation.Node) (map[string]any, error) {
	for _, c := range children {
		if !c.Kind.IsMetric() || c.OrderBy == nil || *c.OrderBy == "" {
			continue
		}
		switch *c.OrderBy {
		case "asc", "desc":
			return map[string]any{AggName(c): *c.OrderBy}, nil
		}
		for _, m := range children {
			if m.Kind.IsMetric() && m.Field == *c.OrderBy {
				return map[string]any{AggName(m): "desc"}, nil
			}
		}
		return nil, fmt.Errorf("aggregation %d orders by %q, which no metric aggregation covers: %w",
			c.ID, *c.OrderBy, domain.ErrInvalidParameter)
	}
	return nil, nil
}

func intParam(v *string, fallback int) int {
	if v == nil {
		return fallback
	}
	n, err := strconv.Atoi(*v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
