// Package kind is the static catalog of aggregation kinds: labels, accepted
// field data types and the tree levels each kind may occupy.
package kind

import (
	"slices"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
)

// Kind names an aggregation variant.
type Kind string

// Aggregation kinds.
const (
	Term      Kind = "term"
	Histogram Kind = "histogram"
	Geohash   Kind = "geohash"
	Sum       Kind = "sum"
	Avg       Kind = "avg"
	Min       Kind = "min"
	Max       Kind = "max"
)

// Level is a bit set of tree levels.
type Level uint8

const (
	// TopLevel nodes live in the tree's root list.
	TopLevel Level = 1 << iota
	// Nested nodes live in a top-level node's children.
	Nested
)

func (l Level) String() string {
	switch l {
	case TopLevel:
		return "top"
	case Nested:
		return "nested"
	case TopLevel | Nested:
		return "any"
	}
	return "none"
}

// Descriptor is the registry entry for one kind.
type Descriptor struct {
	Kind      Kind
	Label     string // message key, resolved by the localization layer
	DataTypes []property.DataType
	Levels    Level
}

// EligibleAt reports whether the kind may be placed at level l.
func (d Descriptor) EligibleAt(l Level) bool { return d.Levels&l != 0 }

// Accepts reports whether a field of type dt may be selected for the kind.
func (d Descriptor) Accepts(dt property.DataType) bool {
	return slices.Contains(d.DataTypes, dt)
}

// IsMetric reports whether the kind is a single-value numeric summary.
func (k Kind) IsMetric() bool {
	switch k {
	case Sum, Avg, Min, Max:
		return true
	case Term, Histogram, Geohash:
		return false
	}
	return false
}

const labelPrefix = "dashboard.savedsearches.aggregation.type."

// catalog order is presentation order; the first entry eligible at a level is that level's default.
var catalog = []Kind{Term, Histogram, Geohash, Sum, Avg, Min, Max}

// Resolve returns the descriptor for a kind name.
func Resolve(name string) (Descriptor, error) {
	numeric := property.Numeric()
	switch k := Kind(name); k {
	case Term:
		return Descriptor{
			Kind:      k,
			Label:     labelPrefix + "counts",
			DataTypes: append([]property.DataType{property.Date, property.Boolean, property.String}, numeric...),
			Levels:    TopLevel | Nested,
		}, nil
	case Histogram:
		return Descriptor{
			Kind:      k,
			Label:     labelPrefix + "histogram",
			DataTypes: append([]property.DataType{property.Date}, numeric...),
			Levels:    TopLevel,
		}, nil
	case Geohash:
		return Descriptor{
			Kind:      k,
			Label:     labelPrefix + "geo",
			DataTypes: []property.DataType{property.GeoLocation},
			Levels:    TopLevel,
		}, nil
	case Sum, Avg, Min, Max:
		return Descriptor{
			Kind:      k,
			Label:     labelPrefix + string(k),
			DataTypes: numeric,
			Levels:    Nested,
		}, nil
	}
	return Descriptor{}, domain.NewUnknownKind(name)
}

// ResolveAt resolves a kind and checks it may be placed at level l.
// A kind outside the level's catalog is reported as unknown for that level.
func ResolveAt(name string, l Level) (Descriptor, error) {
	d, err := Resolve(name)
	if err != nil {
		return Descriptor{}, err
	}
	if !d.EligibleAt(l) {
		return Descriptor{}, domain.NewUnknownKind(name)
	}
	return d, nil
}

// AllowedDataTypes returns the data types a selectable field must have for the kind.
func AllowedDataTypes(name string) ([]property.DataType, error) {
	d, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	return d.DataTypes, nil
}

// ForLevel lists the descriptors eligible at level l, in presentation order.
func ForLevel(l Level) []Descriptor {
	out := make([]Descriptor, 0, len(catalog))
	for _, k := range catalog {
		d, err := Resolve(string(k))
		if err != nil {
			continue
		}
		if d.EligibleAt(l) {
			out = append(out, d)
		}
	}
	return out
}

// Default returns the kind preselected when an edit at level l starts without one.
func Default(l Level) Kind {
	if ds := ForLevel(l); len(ds) > 0 {
		return ds[0].Kind
	}
	return Term
}
