// Package response provides the JSON response envelope used by every HTTP
// handler. All responses, success or error, are JSON.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/listor/internal/domain"
)

// ErrorBody is the wire format for error responses.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// ErrorResponse wraps an error body in the standard envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// internalErrorJSON is pre-marshaled so an encoding failure can always be
// reported as valid JSON.
const internalErrorJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response","details":[]}}`

// writeJSON marshals first, then writes, so an encoding failure still
// produces a 500 with a JSON body instead of a half-written 200.
func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(internalErrorJSON)); err != nil {
			slog.Error("failed to write error response", "error", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// OK writes a 200 response with the given JSON body.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// Created writes a 201 response with the given JSON body.
func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error response with the given status and code.
func Error(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: []string{},
	}})
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "INVALID_ARGUMENT", message)
}

// Unauthorized writes a 401 error.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHENTICATED", message)
}

// Forbidden writes a 403 error.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "PERMISSION_DENIED", message)
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

// Conflict writes a 409 error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}

// Gone writes a 410 error.
func Gone(w http.ResponseWriter, message string) {
	Error(w, http.StatusGone, "GONE", message)
}

// InternalError writes a 500 error without leaking internals.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// FromDomainError maps a domain error to the appropriate HTTP status and
// error code. Unknown errors become 500 with a generic message and are
// logged with full detail.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidShareRole),
		errors.Is(err, domain.ErrInvalidRecurrence),
		errors.Is(err, domain.ErrRecurrenceRequired),
		errors.Is(err, domain.ErrEmptyUpdateMask),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrStatusRequired),
		errors.Is(err, domain.ErrPriorityRequired),
		errors.Is(err, domain.ErrOrderRequired),
		errors.Is(err, domain.ErrInvalidEtagFormat),
		errors.Is(err, domain.ErrCannotInviteSelf):
		BadRequest(w, err.Error())

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials):
		Unauthorized(w, err.Error())

	case errors.Is(err, domain.ErrPermissionDenied),
		errors.Is(err, domain.ErrInvitationWrongEmail):
		Forbidden(w, err.Error())

	case errors.Is(err, domain.ErrListNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrSubtaskNotFound),
		errors.Is(err, domain.ErrInvitationNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		NotFound(w, err.Error())

	case errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvitationNotPending):
		Conflict(w, err.Error())

	case errors.Is(err, domain.ErrInvitationExpired):
		Gone(w, err.Error())

	default:
		slog.ErrorContext(r.Context(), "unhandled error in HTTP handler",
			"path", r.URL.Path,
			"method", r.Method,
			"error", err)
		InternalError(w)
	}
}
