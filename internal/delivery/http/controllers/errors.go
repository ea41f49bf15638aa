package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// statusFor maps a service error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, helpers.ErrCodeNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, helpers.ErrCodeForbidden
	case errors.Is(err, domain.ErrOccurrenceCancelled),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, helpers.ErrCodeBadRequest
	case errors.Is(err, domain.ErrDuplicateReservation):
		return http.StatusConflict, helpers.ErrCodeConflict
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, helpers.ErrCodeUnauthorized
	default:
		return http.StatusInternalServerError, helpers.ErrCodeInternalError
	}
}

// writeServiceError writes the JSON error for err. Unexpected errors are logged.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"err", err,
		)
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
