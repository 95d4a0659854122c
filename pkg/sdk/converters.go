package aggspec

import (
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
	editoruc "github.com/kailas-cloud/aggspec/internal/usecase/editor"
)

func aggregationFromDomain(n aggregation.Node) Aggregation {
	a := Aggregation{
		ID:               n.ID,
		Kind:             Kind(n.Kind),
		Field:            n.Field,
		Label:            n.Label,
		Precision:        n.Precision,
		Interval:         n.Interval,
		IsDate:           n.IsDate,
		MinDocumentCount: n.MinDocumentCount,
		Size:             n.Size,
		Excluded:         n.Excluded,
		OrderBy:          n.OrderBy,
	}
	if len(n.Children) > 0 {
		a.Nested = aggregationsFromDomain(n.Children)
	}
	return a
}

func aggregationsFromDomain(nodes []aggregation.Node) []Aggregation {
	out := make([]Aggregation, len(nodes))
	for i, n := range nodes {
		out[i] = aggregationFromDomain(n)
	}
	return out
}

func aggregationToDomain(a Aggregation) aggregation.Node {
	n := aggregation.Node{
		ID:               a.ID,
		Kind:             kind.Kind(a.Kind),
		Field:            a.Field,
		Label:            a.Label,
		Precision:        a.Precision,
		Interval:         a.Interval,
		IsDate:           a.IsDate,
		MinDocumentCount: a.MinDocumentCount,
		Size:             a.Size,
		Excluded:         a.Excluded,
		OrderBy:          a.OrderBy,
	}
	if len(a.Nested) > 0 {
		n.Children = aggregationsToDomain(a.Nested)
	}
	return n
}

func aggregationsToDomain(as []Aggregation) []aggregation.Node {
	out := make([]aggregation.Node, len(as))
	for i, a := range as {
		out[i] = aggregationToDomain(a)
	}
	return out
}

func propertyToDomain(p Property) property.Property {
	return property.New(p.Name, p.DisplayName, property.DataType(p.DataType), p.Sortable)
}

func viewFromDomain(v editoruc.View) EditView {
	if v.State != editoruc.Editing {
		return EditView{State: EditIdle}
	}
	a := aggregationFromDomain(v.Node)
	out := EditView{
		State:         EditEditing,
		Token:         v.Token,
		Level:         v.Level.String(),
		Aggregation:   &a,
		OnlySortable:  v.OnlySortable,
		IntervalValue: v.IntervalMagnitude,
		IntervalUnit:  v.IntervalUnit,
	}
	for _, d := range v.Kinds {
		out.Kinds = append(out.Kinds, Kind(d.Kind))
	}
	for _, dt := range v.AllowedDataTypes {
		out.AllowedDataTypes = append(out.AllowedDataTypes, DataType(dt))
	}
	return out
}

func paramsToDomain(p EditParams) editoruc.Params {
	return editoruc.Params{
		Precision:         p.Precision,
		Interval:          p.Interval,
		IntervalMagnitude: p.IntervalValue,
		IntervalUnit:      p.IntervalUnit,
		Size:              p.Size,
		Excluded:          p.Excluded,
		OrderBy:           p.OrderBy,
	}
}

func statsToDomain(s Stats) interval.Stats {
	return interval.Stats{Field: s.Field, Min: s.Min, Max: s.Max}
}
