package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/coffee-finder/internal/apperror"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{"validation", apperror.ValidationFailed("lat", "lat must be a number"), http.StatusBadRequest, "validation_error", "lat must be a number"},
		{"unauthorized", apperror.Unauthorized("login required"), http.StatusUnauthorized, "unauthorized", "login required"},
		{"forbidden", apperror.Forbidden("admins only"), http.StatusForbidden, "forbidden", "admins only"},
		{"not found", apperror.NotFound("shop", 12), http.StatusNotFound, "not_found", "shop not found with id 12"},
		{"conflict", apperror.Conflict("user", "a@example.com"), http.StatusConflict, "conflict", "user already exists: a@example.com"},
		{"wrapped", fmt.Errorf("updating shop: %w", apperror.NotFound("shop", 3)), http.StatusNotFound, "not_found", "shop not found with id 3"},
		{"internal", errors.New("sqlite: database is locked"), http.StatusInternalServerError, "internal_error", internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errorType, msg := statusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, errorType)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/shops", nil)

	writeError(rr, r, errors.New("sqlite: no such table: coffee_shops"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: "internal_error", Message: internalErrorMessage}, body)
}

func TestWriteTextError(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/review/1", nil)

	writeTextError(rr, r, apperror.ValidationFailed("rating", "rating must be a whole number from 1 to 5"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rr.Body.String(), "rating must be a whole number")
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"9000", 9000, false},
		{"abc", 0, true},
		{"1.5", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseID(withID(httptest.NewRequest(http.MethodGet, "/", nil), tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
