package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/slayerintech/Lovify/internal/domain/errs"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RateLimitError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	RetryAfterSec int64  `json:"retry_after_sec"`
}

type MatchPendingError struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	DecisionSaved bool   `json:"decision_saved"`
}

type retryAfter interface {
	RetryAfter() int64
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps a service error onto the API error taxonomy.
func WriteError(w http.ResponseWriter, err error) {
	var limited retryAfter
	if _, ok := errs.IsMatchStatusUnknown(err); ok {
		Write(w, http.StatusAccepted, MatchPendingError{
			Code:          "MATCH_STATUS_UNKNOWN",
			Message:       "decision saved, match outcome will be resolved later",
			DecisionSaved: true,
		})
		return
	}

	switch {
	case stderrors.As(err, &limited):
		w.Header().Set("Retry-After", strconv.FormatInt(limited.RetryAfter(), 10))
		Write(w, http.StatusTooManyRequests, RateLimitError{
			Code:          "TOO_MANY_REQUESTS",
			Message:       err.Error(),
			RetryAfterSec: limited.RetryAfter(),
		})
	case stderrors.Is(err, errs.ErrPreconditionNotMet):
		Write(w, http.StatusConflict, APIError{Code: "PROFILE_REQUIRED", Message: "create a profile first"})
	case stderrors.Is(err, errs.ErrInvalidInput):
		Write(w, http.StatusBadRequest, APIError{Code: "VALIDATION_ERROR", Message: err.Error()})
	case stderrors.Is(err, errs.ErrNotFound):
		Write(w, http.StatusNotFound, APIError{Code: "NOT_FOUND", Message: "not found"})
	case stderrors.Is(err, errs.ErrForbidden):
		Write(w, http.StatusForbidden, APIError{Code: "FORBIDDEN", Message: "not a participant"})
	case errs.IsTransient(err):
		w.Header().Set("Retry-After", "1")
		Write(w, http.StatusServiceUnavailable, APIError{Code: "TRANSIENT", Message: "temporarily unavailable, retry"})
	default:
		Write(w, http.StatusInternalServerError, APIError{Code: "INTERNAL_ERROR", Message: "internal server error"})
	}
}
