// Package interval derives histogram bucket widths from field statistics.
package interval

import (
	"math"
	"strconv"
)

const (
	// TargetBuckets is the bucket count a derived interval aims for.
	TargetBuckets = 20
	// Default is the bucket width applied to a histogram before any statistics arrive.
	Default int64 = 20
	// DefaultMagnitude replaces an unparsable display magnitude.
	DefaultMagnitude int64 = 20
)

// Unit is a human-scale date interval unit.
type Unit struct {
	Name   string
	Millis int64
}

// Date units, smallest first.
var (
	Minute = Unit{Name: "minutes", Millis: 60 * 1000}
	Hour   = Unit{Name: "hours", Millis: 60 * 60 * 1000}
	Day    = Unit{Name: "days", Millis: 24 * 60 * 60 * 1000}
	Year   = Unit{Name: "years", Millis: 365 * 24 * 60 * 60 * 1000}
)

// Units returns the supported date units in ascending order.
func Units() []Unit {
	return []Unit{Minute, Hour, Day, Year}
}

// UnitByName looks up a unit by its name.
func UnitByName(name string) (Unit, bool) {
	for _, u := range Units() {
		if u.Name == name {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitByMillis looks up a unit by its width in milliseconds.
func UnitByMillis(ms int64) (Unit, bool) {
	for _, u := range Units() {
		if u.Millis == ms {
			return u, true
		}
	}
	return Unit{}, false
}

// Stats are the numeric bounds of a field as reported by the statistics provider.
// Dates are expressed in epoch milliseconds.
type Stats struct {
	Field string  `json:"field"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Result is a derived histogram interval.
type Result struct {
	Interval int64
	IsDate   bool
	Unit     Unit // presentation only; zero for non-date fields
}

// Encoded returns the interval in its stored string form.
func (r Result) Encoded() string { return strconv.FormatInt(r.Interval, 10) }

// Magnitude returns the interval expressed in Unit, rounded. Zero for non-date results.
func (r Result) Magnitude() int64 {
	if r.Unit.Millis == 0 {
		return 0
	}
	return Magnitude(r.Interval, r.Unit)
}

// Calculate derives a bucket interval aiming at TargetBuckets buckets over [Min, Max].
// Date intervals are never narrower than one minute.
func Calculate(s Stats, isDate bool) Result {
	raw := round((s.Max - s.Min) / TargetBuckets)
	if !isDate {
		return Result{Interval: raw}
	}
	if raw < Minute.Millis {
		raw = Minute.Millis
	}
	return Result{Interval: raw, IsDate: true, Unit: UnitFor(raw)}
}

// UnitFor picks the largest unit not exceeding ms. Values below one minute map to minutes.
func UnitFor(ms int64) Unit {
	units := Units()
	for i, u := range units {
		if ms < u.Millis {
			return units[max(0, i-1)]
		}
	}
	return units[len(units)-1]
}

// Magnitude expresses ms in unit u, rounded half up.
func Magnitude(ms int64, u Unit) int64 {
	return round(float64(ms) / float64(u.Millis))
}

// FromMagnitude converts a display magnitude in unit u back to milliseconds.
// Non-positive magnitudes fall back to DefaultMagnitude.
func FromMagnitude(magnitude int64, u Unit) int64 {
	if magnitude <= 0 {
		magnitude = DefaultMagnitude
	}
	return magnitude * u.Millis
}

// round rounds half toward positive infinity.
func round(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
