package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/coffee-finder/internal/apperror"
)

// ErrorResponse is the body of every JSON error:
//
//	{"error": "not_found", "message": "shop not found with id 12"}
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const internalErrorMessage = "An internal error occurred"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// statusFor maps a domain error to its HTTP status, a machine-readable type
// and the message safe to show the client. Errors that are not an
// *apperror.AppError are internal and get a generic message.
func statusFor(err error) (status int, errorType, message string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal_error", internalErrorMessage
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, "validation_error", appErr.Message
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", appErr.Message
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, "forbidden", appErr.Message
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, "not_found", appErr.Message
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, "conflict", appErr.Message
	default:
		return http.StatusInternalServerError, "internal_error", internalErrorMessage
	}
}

// writeError answers a JSON API request with the mapped status and the
// ErrorResponse body. Internal errors are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, errorType, message := statusFor(err)
	if status == http.StatusInternalServerError {
		logInternal(r, err)
	}
	writeJSON(w, status, ErrorResponse{Error: errorType, Message: message})
}

// writeTextError is writeError for HTML forms: the same status, but the
// message as plain text.
func writeTextError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, message := statusFor(err)
	if status == http.StatusInternalServerError {
		logInternal(r, err)
	}
	http.Error(w, message, status)
}

func logInternal(r *http.Request, err error) {
	slog.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
}

// parseID reads the {id} route parameter. Anything that is not a base-10
// integer is a validation error.
func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed("id", "id must be an integer, got "+strconv.Quote(raw))
	}
	return id, nil
}
