package sse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainWriter hides the Flusher interface of the embedded recorder.
type plainWriter struct {
	header http.Header
}

func (w *plainWriter) Header() http.Header        { return w.header }
func (w *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *plainWriter) WriteHeader(int)             {}

func TestNewWriter_RequiresFlusher(t *testing.T) {
	t.Parallel()

	_, err := NewWriter(&plainWriter{header: http.Header{}})
	require.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestNewWriter_SetsStreamHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	_, err := NewWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
}

func TestWriter_Send_FrameFormat(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.Send(map[string]string{"status": "sent"}))
	require.NoError(t, w.Send(map[string]bool{"done": true}))

	assert.Equal(t, "data: {\"status\":\"sent\"}\n\ndata: {\"done\":true}\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestWriter_Send_MarshalError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w, err := NewWriter(rec)
	require.NoError(t, err)

	require.Error(t, w.Send(func() {}))
	assert.Empty(t, rec.Body.String(), "nothing written on marshal failure")
}
