package aggregation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/aggspec/internal/domain"
	"github.com/kailas-cloud/aggspec/internal/domain/aggregation/kind"
	"github.com/kailas-cloud/aggspec/internal/domain/property"
)

// Problem is a defect found in a stored specification.
type Problem struct {
	Path string // e.g. "[0]" or "[0].nested[1]"
	Err  error
}

func (p Problem) Error() string { return p.Path + ": " + p.Err.Error() }

func (p Problem) Unwrap() error { return p.Err }

// Lookup resolves a field to its catalog property.
type Lookup func(field string) (property.Property, bool)

// Check reports every defect of a specification as the editor would see it
// after loading: kinds at the wrong level, missing or incompatible fields,
// out-of-range parameters, duplicate ids and nesting deeper than two levels.
// A nil lookup skips field type checks.
func Check(nodes []Node, lookup Lookup) []Problem {
	var problems []Problem
	seen := make(map[int64]string)

	report := func(path string, err error) {
		problems = append(problems, Problem{Path: path, Err: err})
	}
	checkID := func(path string, id int64) {
		if id == 0 {
			return
		}
		if first, dup := seen[id]; dup {
			report(path, fmt.Errorf("id %d already used at %s: %w", id, first, domain.ErrInvalidParameter))
			return
		}
		seen[id] = path
	}

	for i, top := range nodes {
		path := "[" + strconv.Itoa(i) + "]"
		checkID(path, top.ID)
		for _, err := range checkNode(top, kind.TopLevel, lookup) {
			report(path, err)
		}
		for j, child := range top.Children {
			childPath := path + ".nested[" + strconv.Itoa(j) + "]"
			checkID(childPath, child.ID)
			for _, err := range checkNode(child, kind.Nested, lookup) {
				report(childPath, err)
			}
			if len(child.Children) > 0 {
				report(childPath, fmt.Errorf("nested aggregations cannot own children: %w", domain.ErrNestingNotAllowed))
			}
		}
	}
	return problems
}

func checkNode(n Node, level kind.Level, lookup Lookup) []error {
	d, err := kind.ResolveAt(string(n.Kind), level)
	if err != nil {
		return []error{fmt.Errorf("%s level: %w", level, err)}
	}

	var errs []error
	switch {
	case n.Field == "":
		errs = append(errs, fmt.Errorf("field is required: %w", domain.ErrInvalidParameter))
	case lookup != nil:
		p, ok := lookup(n.Field)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("unknown field %q: %w", n.Field, domain.ErrIncompatibleField))
		case !d.Accepts(p.DataType()):
			errs = append(errs, fmt.Errorf("field %q of type %s: %w", n.Field, p.DataType(), domain.ErrIncompatibleField))
		}
	}

	// Replay parameters through the setters on a scratch copy.
	scratch := Node{Kind: n.Kind}
	if n.Precision != nil {
		p, convErr := strconv.Atoi(strings.TrimSpace(*n.Precision))
		if convErr != nil {
			errs = append(errs, fmt.Errorf("precision %q must be an integer: %w", *n.Precision, domain.ErrInvalidParameter))
		} else {
			errs = append(errs, scratch.SetPrecision(p))
		}
	}
	if n.Interval != nil {
		errs = append(errs, scratch.SetInterval(*n.Interval))
	}
	if n.Size != nil {
		if _, convErr := strconv.Atoi(*n.Size); convErr != nil {
			errs = append(errs, fmt.Errorf("size %q must be an integer: %w", *n.Size, domain.ErrInvalidParameter))
		}
		errs = append(errs, scratch.SetSize(*n.Size))
	}
	if n.Excluded != nil {
		errs = append(errs, scratch.SetExcluded(*n.Excluded))
	}
	if n.OrderBy != nil {
		errs = append(errs, scratch.SetOrderBy(*n.OrderBy))
	}
	return compact(errs)
}

func compact(errs []error) []error {
	out := errs[:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

// HasProblem reports whether any problem wraps target.
func HasProblem(problems []Problem, target error) bool {
	for _, p := range problems {
		if errors.Is(p, target) {
			return true
		}
	}
	return false
}
