package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/noreplysender/noreplysender/internal/dispatch"
	"github.com/noreplysender/noreplysender/internal/recipient"
	"github.com/noreplysender/noreplysender/pkg/sse"
)

// sendRequest is one bulk send job submission.
type sendRequest struct {
	Recipients recipient.Input `json:"recipients"`
	Subject    string          `json:"subject"`
	Content    string          `json:"content"`
	Password   string          `json:"password"`
}

// handleSend runs the bulk send pipeline: authorize, render once, normalize
// once, then dispatch sequentially while streaming one delivery event per
// recipient over SSE. Job-fatal errors short-circuit with a JSON error
// before the stream opens; per-recipient failures become failed events and
// never abort the batch.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, recipient.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.gate.Authorize(req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if !s.mailReady {
		respondError(w, http.StatusInternalServerError, "SMTP configuration missing")
		return
	}

	body, err := s.renderer.Render(req.Content)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	recipients, skipped := req.Recipients.Normalize()

	job := dispatch.Job{
		ID:         uuid.NewString(),
		Subject:    req.Subject,
		Body:       body,
		Recipients: recipients,
		Skipped:    skipped,
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.InfoContext(r.Context(), "send job started",
		slog.String("job_id", job.ID),
		slog.Int("recipients", len(recipients)),
		slog.Int("skipped", skipped),
	)

	if err := s.dispatcher.Run(r.Context(), job, stream); err != nil {
		// Client disconnect or cancellation; the stream is gone, so there
		// is nothing to report to. Log and return.
		s.log.InfoContext(r.Context(), "send job aborted",
			slog.String("job_id", job.ID),
			slog.String("reason", err.Error()),
		)
	}
}
