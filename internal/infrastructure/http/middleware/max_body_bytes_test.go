package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/listor/internal/infrastructure/http/middleware"
)

func TestMaxBodyBytes_FastPathRejection(t *testing.T) {
	var nextCalled bool
	handler := middleware.MaxBodyBytes(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader(strings.Repeat("x", 64)))
	require.Equal(t, int64(64), req.ContentLength)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, nextCalled, "handler must not run for oversized bodies")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(t, rec))
}

func TestMaxBodyBytes_SlowPathRejection(t *testing.T) {
	var nextCalled bool
	handler := middleware.MaxBodyBytes(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	// Unknown Content-Length skips the header check; the limit has to be
	// enforced during the read.
	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, nextCalled)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(t, rec))
}

func TestMaxBodyBytes_WithinLimit_BodyStillReadable(t *testing.T) {
	const payload = `{"title":"Groceries"}`

	handler := middleware.MaxBodyBytes(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(got))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaxBodyBytes_EmptyBody(t *testing.T) {
	handler := middleware.MaxBodyBytes(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/lists", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
