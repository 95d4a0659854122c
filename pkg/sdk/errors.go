package aggspec

import "github.com/kailas-cloud/aggspec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound              = domain.ErrNotFound
	ErrUnknownKind           = domain.ErrUnknownKind
	ErrInvalidParameter      = domain.ErrInvalidParameter
	ErrIncompatibleField     = domain.ErrIncompatibleField
	ErrNoActiveEdit          = domain.ErrNoActiveEdit
	ErrNestingNotAllowed     = domain.ErrNestingNotAllowed
	ErrStatisticsMismatch    = domain.ErrStatisticsMismatch
	ErrStatisticsUnavailable = domain.ErrStatisticsUnavailable
	ErrStaleStatistics       = domain.ErrStaleStatistics
)
