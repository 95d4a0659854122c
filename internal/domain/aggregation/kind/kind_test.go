package kind

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
)

func TestResolve_AllCatalogKinds(t *testing.T) {
	tests := []struct {
		kind   Kind
		label  string
		levels Level
	}{
		{Term, "dashboard.savedsearches.aggregation.type.counts", TopLevel | Nested},
		{Histogram, "dashboard.savedsearches.aggregation.type.histogram", TopLevel},
		{Geohash, "dashboard.savedsearches.aggregation.type.geo", TopLevel},
		{Sum, "dashboard.savedsearches.aggregation.type.sum", Nested},
		{Avg, "dashboard.savedsearches.aggregation.type.avg", Nested},
		{Min, "dashboard.savedsearches.aggregation.type.min", Nested},
		{Max, "dashboard.savedsearches.aggregation.type.max", Nested},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d, err := Resolve(string(tt.kind))
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.kind, err)
			}
			if d.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", d.Kind, tt.kind)
			}
			if d.Label != tt.label {
				t.Errorf("Label = %q, want %q", d.Label, tt.label)
			}
			if d.Levels != tt.levels {
				t.Errorf("Levels = %s, want %s", d.Levels, tt.levels)
			}
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, err := Resolve("percentiles")
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}

	_, err = Resolve("")
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind for empty kind, got %v", err)
	}
}

func TestResolveAt_LevelEligibility(t *testing.T) {
	if _, err := ResolveAt("sum", TopLevel); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("sum at top level: expected ErrUnknownKind, got %v", err)
	}
	if _, err := ResolveAt("histogram", Nested); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("histogram nested: expected ErrUnknownKind, got %v", err)
	}
	if _, err := ResolveAt("term", Nested); err != nil {
		t.Errorf("term nested: unexpected error %v", err)
	}
	if _, err := ResolveAt("term", TopLevel); err != nil {
		t.Errorf("term top-level: unexpected error %v", err)
	}
}

func TestAllowedDataTypes(t *testing.T) {
	tests := []struct {
		kind    string
		accepts []property.DataType
		rejects []property.DataType
	}{
		{
			kind:    "term",
			accepts: []property.DataType{property.Date, property.Boolean, property.String, property.Integer, property.Currency},
			rejects: []property.DataType{property.GeoLocation},
		},
		{
			kind:    "histogram",
			accepts: []property.DataType{property.Date, property.Double, property.Number},
			rejects: []property.DataType{property.String, property.Boolean, property.GeoLocation},
		},
		{
			kind:    "geohash",
			accepts: []property.DataType{property.GeoLocation},
			rejects: []property.DataType{property.Date, property.String, property.Integer},
		},
		{
			kind:    "avg",
			accepts: []property.DataType{property.Integer, property.Decimal, property.Double, property.Number, property.Currency},
			rejects: []property.DataType{property.Date, property.String, property.Boolean},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			types, err := AllowedDataTypes(tt.kind)
			if err != nil {
				t.Fatalf("AllowedDataTypes: %v", err)
			}
			set := make(map[property.DataType]bool, len(types))
			for _, dt := range types {
				set[dt] = true
			}
			for _, dt := range tt.accepts {
				if !set[dt] {
					t.Errorf("%s should accept %q", tt.kind, dt)
				}
			}
			for _, dt := range tt.rejects {
				if set[dt] {
					t.Errorf("%s should reject %q", tt.kind, dt)
				}
			}
		})
	}
}

func TestForLevel(t *testing.T) {
	top := ForLevel(TopLevel)
	wantTop := []Kind{Term, Histogram, Geohash}
	if len(top) != len(wantTop) {
		t.Fatalf("top-level kinds = %d, want %d", len(top), len(wantTop))
	}
	for i, k := range wantTop {
		if top[i].Kind != k {
			t.Errorf("top[%d] = %q, want %q", i, top[i].Kind, k)
		}
	}

	nested := ForLevel(Nested)
	wantNested := []Kind{Term, Sum, Avg, Min, Max}
	if len(nested) != len(wantNested) {
		t.Fatalf("nested kinds = %d, want %d", len(nested), len(wantNested))
	}
	for i, k := range wantNested {
		if nested[i].Kind != k {
			t.Errorf("nested[%d] = %q, want %q", i, nested[i].Kind, k)
		}
	}
}

func TestDefault(t *testing.T) {
	if Default(TopLevel) != Term {
		t.Errorf("Default(TopLevel) = %q, want term", Default(TopLevel))
	}
	if Default(Nested) != Term {
		t.Errorf("Default(Nested) = %q, want term", Default(Nested))
	}
}

func TestIsMetric(t *testing.T) {
	for _, k := range []Kind{Sum, Avg, Min, Max} {
		if !k.IsMetric() {
			t.Errorf("%q should be a metric", k)
		}
	}
	for _, k := range []Kind{Term, Histogram, Geohash} {
		if k.IsMetric() {
			t.Errorf("%q should not be a metric", k)
		}
	}
}
