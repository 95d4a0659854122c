package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/aggspec/internal/domain"
	logpkg "github.com/kailas-cloud/aggspec/internal/logger"
)

// ErrorCode is the machine-readable error code of an API error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest            ErrorCode = "bad_request"
	CodeValidationFailed      ErrorCode = "validation_failed"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeNotFound              ErrorCode = "not_found"
	CodeUnknownKind           ErrorCode = "unknown_kind"
	CodeInvalidParameter      ErrorCode = "invalid_parameter"
	CodeIncompatibleField     ErrorCode = "incompatible_field"
	CodeNoActiveEdit          ErrorCode = "no_active_edit"
	CodeNestingNotAllowed     ErrorCode = "nesting_not_allowed"
	CodeStaleStatistics       ErrorCode = "stale_statistics"
	CodeStatisticsMismatch    ErrorCode = "statistics_mismatch"
	CodeStatisticsUnavailable ErrorCode = "statistics_unavailable"
	CodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		unknownKindHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrInvalidParameter, http.StatusBadRequest, CodeInvalidParameter),
		sentinelHandler(domain.ErrIncompatibleField, http.StatusBadRequest, CodeIncompatibleField),
		sentinelHandler(domain.ErrNoActiveEdit, http.StatusConflict, CodeNoActiveEdit),
		sentinelHandler(domain.ErrNestingNotAllowed, http.StatusConflict, CodeNestingNotAllowed),
		sentinelHandler(domain.ErrStaleStatistics, http.StatusConflict, CodeStaleStatistics),
		sentinelHandler(domain.ErrStatisticsMismatch, http.StatusBadGateway, CodeStatisticsMismatch),
		sentinelHandler(domain.ErrStatisticsUnavailable, http.StatusBadGateway, CodeStatisticsUnavailable),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrUnknownKind,
		domain.ErrInvalidParameter,
		domain.ErrIncompatibleField,
		domain.ErrNoActiveEdit,
		domain.ErrNestingNotAllowed,
		domain.ErrStaleStatistics,
		domain.ErrStatisticsMismatch,
		domain.ErrStatisticsUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unknownKindHandler handles ErrUnknownKind and echoes the rejected kind.
func unknownKindHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUnknownKind) {
		return false
	}
	var uke *domain.UnknownKindError
	if errors.As(err, &uke) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":    CodeUnknownKind,
			"message": msg,
			"kind":    uke.Kind,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, CodeUnknownKind, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
