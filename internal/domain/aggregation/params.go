package aggregation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/interval"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
)

// Geohash precision bounds and default.
const (
	MinPrecision     = 1
	MaxPrecision     = 8
	DefaultPrecision = 5
)

// DefaultSize is the term bucket count applied when none is given.
const DefaultSize = 10

// Precision is a selectable geohash precision.
type Precision struct {
	Value   int
	Label   string // message key
	Default bool
}

// Precisions lists the selectable geohash precisions.
func Precisions() []Precision {
	out := make([]Precision, 0, MaxPrecision)
	for p := MinPrecision; p <= MaxPrecision; p++ {
		out = append(out, Precision{
			Value:   p,
			Label:   fmt.Sprintf("dashboard.savedsearches.aggregation.geo.precision.%d", p),
			Default: p == DefaultPrecision,
		})
	}
	return out
}

// Retype switches the node to kind k, drops parameters foreign to it and
// fills in k's defaults.
func (n *Node) Retype(k kind.Kind) error {
	if _, err := kind.Resolve(string(k)); err != nil {
		return err
	}
	n.Kind = k
	n.clearForeign(k)
	return n.ApplyDefaults()
}

// ApplyDefaults fills in the kind's defaults where absent.
func (n *Node) ApplyDefaults() error {
	d, err := kind.Resolve(string(n.Kind))
	if err != nil {
		return err
	}

	switch d.Kind {
	case kind.Geohash:
		if n.Precision == nil {
			n.Precision = ptr(strconv.Itoa(DefaultPrecision))
		}
	case kind.Histogram:
		if n.Interval == nil || *n.Interval == "" {
			n.Interval = ptr(strconv.FormatInt(interval.Default, 10))
		}
	case kind.Term:
		if n.Size == nil || *n.Size == "" {
			n.Size = ptr(strconv.Itoa(DefaultSize))
		}
		if n.Excluded == nil {
			n.Excluded = ptr("")
		}
	case kind.Sum, kind.Avg, kind.Min, kind.Max:
		// order-by stays unset until chosen
	}
	return nil
}

func (n *Node) clearForeign(k kind.Kind) {
	if k != kind.Geohash {
		n.Precision = nil
	}
	if k != kind.Histogram {
		n.Interval = nil
		n.IsDate = nil
		n.MinDocumentCount = nil
	}
	if k != kind.Term {
		n.Size = nil
		n.Excluded = nil
	}
	if !k.IsMetric() {
		n.OrderBy = nil
	}
}

// FinalizeForCommit applies the fixed parameters every committed node carries.
func (n *Node) FinalizeForCommit() {
	if n.Kind == kind.Histogram {
		n.MinDocumentCount = ptr(0)
	}
}

// SetPrecision sets the geohash precision.
func (n *Node) SetPrecision(p int) error {
	if err := n.requireKind(kind.Geohash, "precision"); err != nil {
		return err
	}
	if p < MinPrecision || p > MaxPrecision {
		return fmt.Errorf("precision %d outside %d..%d: %w", p, MinPrecision, MaxPrecision, domain.ErrInvalidParameter)
	}
	n.Precision = ptr(strconv.Itoa(p))
	return nil
}

// PrecisionValue returns the geohash precision, DefaultPrecision when unset or unparsable.
func (n *Node) PrecisionValue() int {
	if n.Precision == nil {
		return DefaultPrecision
	}
	p, err := strconv.Atoi(strings.TrimSpace(*n.Precision))
	if err != nil || p < MinPrecision || p > MaxPrecision {
		return DefaultPrecision
	}
	return p
}

// SetInterval sets a raw histogram bucket width.
func (n *Node) SetInterval(v string) error {
	if err := n.requireKind(kind.Histogram, "interval"); err != nil {
		return err
	}
	iv, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || iv <= 0 {
		return fmt.Errorf("interval %q must be a positive integer: %w", v, domain.ErrInvalidParameter)
	}
	n.Interval = ptr(strconv.FormatInt(iv, 10))
	return nil
}

// SetDateInterval sets a date histogram width from a display magnitude and unit.
// A non-positive magnitude falls back to interval.DefaultMagnitude.
// Numeric histograms take their width through SetInterval only.
func (n *Node) SetDateInterval(magnitude int64, u interval.Unit) error {
	if err := n.requireKind(kind.Histogram, "interval"); err != nil {
		return err
	}
	if n.IsDate == nil || !*n.IsDate {
		return fmt.Errorf("interval unit only applies to date histograms: %w", domain.ErrInvalidParameter)
	}
	if _, ok := interval.UnitByMillis(u.Millis); !ok {
		return fmt.Errorf("unknown interval unit %q: %w", u.Name, domain.ErrInvalidParameter)
	}
	n.Interval = ptr(strconv.FormatInt(interval.FromMagnitude(magnitude, u), 10))
	return nil
}

// DisplayInterval splits a date histogram interval into magnitude and unit.
// ok is false for non-date or unset intervals.
func (n *Node) DisplayInterval() (magnitude int64, u interval.Unit, ok bool) {
	if n.Interval == nil || n.IsDate == nil || !*n.IsDate {
		return 0, interval.Unit{}, false
	}
	ms, err := strconv.ParseInt(*n.Interval, 10, 64)
	if err != nil {
		return 0, interval.Unit{}, false
	}
	u = interval.UnitFor(ms)
	return interval.Magnitude(ms, u), u, true
}

// ApplyInterval stores a derived interval.
func (n *Node) ApplyInterval(r interval.Result) {
	n.Interval = ptr(r.Encoded())
	n.IsDate = ptr(r.IsDate)
}

// SetSize sets the term bucket count. Unparsable or non-positive values fall back to DefaultSize.
func (n *Node) SetSize(v string) error {
	if err := n.requireKind(kind.Term, "size"); err != nil {
		return err
	}
	size, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || size <= 0 {
		size = DefaultSize
	}
	n.Size = ptr(strconv.Itoa(size))
	return nil
}

// SetExcluded sets the term exclusion pattern.
func (n *Node) SetExcluded(pattern string) error {
	if err := n.requireKind(kind.Term, "excluded"); err != nil {
		return err
	}
	n.Excluded = ptr(pattern)
	return nil
}

// SetOrderBy sets the field a metric aggregation orders by.
func (n *Node) SetOrderBy(field string) error {
	if !n.Kind.IsMetric() {
		return fmt.Errorf("orderBy not valid for %q: %w", n.Kind, domain.ErrInvalidParameter)
	}
	n.OrderBy = ptr(field)
	return nil
}

func (n *Node) requireKind(k kind.Kind, param string) error {
	if n.Kind != k {
		return fmt.Errorf("%s not valid for %q: %w", param, n.Kind, domain.ErrInvalidParameter)
	}
	return nil
}
