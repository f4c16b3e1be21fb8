package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noreplysender/noreplysender/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates an id", func(t *testing.T) {
		t.Parallel()

		var got string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = RequestIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, got)
		assert.Equal(t, got, rec.Header().Get("X-Request-ID"))
	})

	t.Run("reuses inbound header", func(t *testing.T) {
		t.Parallel()

		var got string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "corr-42", got)
		assert.Equal(t, "corr-42", rec.Header().Get("X-Request-ID"))
	})
}

func TestRecover(t *testing.T) {
	t.Parallel()

	h := Recover(logger.NewNope())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal Server Error"}`, rec.Body.String())
}

func TestStatusWriter(t *testing.T) {
	t.Parallel()

	t.Run("records explicit status", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: rec}
		sw.WriteHeader(http.StatusTeapot)
		assert.Equal(t, http.StatusTeapot, sw.status())
	})

	t.Run("implicit 200 on write", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: rec}
		_, err := sw.Write([]byte("ok"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, sw.status())
	})

	t.Run("preserves flusher", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: rec}
		var w http.ResponseWriter = sw
		_, ok := w.(http.Flusher)
		require.True(t, ok, "streaming must survive the logging wrapper")
		sw.Flush()
		assert.True(t, rec.Flushed)
	})
}
