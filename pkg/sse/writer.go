// Package sse implements minimal server-sent-events writing over an HTTP
// response, flushing each event as soon as it is produced.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported indicates the underlying ResponseWriter cannot
// flush incrementally (no http.Flusher support).
var ErrStreamingUnsupported = errors.New("sse: response writer does not support streaming")

// Writer streams data-only SSE frames to a single client. It is not safe for
// concurrent use; the dispatch loop is the sole producer.
type Writer struct {
	w http.ResponseWriter
	f http.Flusher
}

// NewWriter prepares the response for event streaming and returns a Writer.
// It sets the SSE headers but does not write the status line; the first
// event does.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	// Disable proxy buffering so events reach the client immediately.
	h.Set("X-Accel-Buffering", "no")

	return &Writer{w: w, f: f}, nil
}

// Send marshals v to JSON, writes it as a single "data:" frame, and flushes.
// A write error means the client has gone away; callers should treat it as
// cancellation and stop producing events.
func (s *Writer) Send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("sse: write event: %w", err)
	}

	s.f.Flush()
	return nil
}
