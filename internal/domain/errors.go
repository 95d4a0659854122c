package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrUnknownKind signals an aggregation kind missing from the registry.
	ErrUnknownKind = errors.New("unknown aggregation kind")
	// ErrInvalidParameter signals a malformed kind-specific parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrIncompatibleField signals a field whose data type the kind does not accept.
	ErrIncompatibleField = errors.New("incompatible field")
	// ErrNoActiveEdit signals an edit operation without an open edit session.
	ErrNoActiveEdit = errors.New("no active edit")
	// ErrNestingNotAllowed signals that the tree does not offer a nested slot.
	ErrNestingNotAllowed = errors.New("nesting not allowed")

	// ErrStatisticsMismatch signals a statistics response for a different field.
	ErrStatisticsMismatch = errors.New("statistics field mismatch")
	// ErrStatisticsUnavailable signals a failed statistics request.
	ErrStatisticsUnavailable = errors.New("statistics unavailable")
	// ErrStaleStatistics signals a statistics response that arrived after the session moved on.
	ErrStaleStatistics = errors.New("stale statistics")
)

// UnknownKindError wraps ErrUnknownKind with the offending kind name.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownKind.Error(), e.Kind)
}

func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// NewUnknownKind creates an unknown kind error.
func NewUnknownKind(kind string) error {
	return &UnknownKindError{Kind: kind}
}
