package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noreplysender/noreplysender/internal/notion"
)

type notionRecipientsRequest struct {
	Roles []string `json:"roles"`
}

// handleNotionRecipients resolves recipients from the workspace database by
// role set. The response rows already satisfy the normalizer's mapping
// shape, so the client can submit them to /api/send unchanged.
func (s *Server) handleNotionRecipients(w http.ResponseWriter, r *http.Request) {
	if s.recipients == nil {
		respondError(w, http.StatusInternalServerError, "Notion configuration missing")
		return
	}

	var req notionRecipientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recipients, err := s.recipients.ListRecipients(r.Context(), req.Roles)
	if err != nil {
		s.respondSourceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"recipients": recipients})
}

// handleNotionRoles lists the audience role options of the recipient
// database.
func (s *Server) handleNotionRoles(w http.ResponseWriter, r *http.Request) {
	if s.recipients == nil {
		respondError(w, http.StatusInternalServerError, "Notion configuration missing")
		return
	}

	roles, err := s.recipients.ListRoles(r.Context())
	if err != nil {
		s.respondSourceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"roles": roles})
}

// handleListTemplates merges local directory templates with workspace
// templates. Either source may be absent; the other still serves.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	items := make([]notion.Template, 0)

	if s.localTpl != nil {
		local, err := s.localTpl.List()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to read templates")
			return
		}
		for _, t := range local {
			items = append(items, notion.Template{
				Name:    t.Filename,
				Subject: t.Subject,
				Body:    t.Body,
				Source:  "local",
			})
		}
	}

	if s.remoteTpl != nil {
		remote, err := s.remoteTpl.ListTemplates(r.Context())
		if err != nil && !errors.Is(err, notion.ErrNotConfigured) {
			s.respondSourceError(w, err)
			return
		}
		items = append(items, remote...)
	}

	respondJSON(w, http.StatusOK, map[string]any{"templates": items})
}

type saveTemplateRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Type    string `json:"type"`
}

// handleSaveTemplate stores a template in the workspace database.
func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	if s.remoteTpl == nil {
		respondError(w, http.StatusInternalServerError, "Notion Template DB not configured")
		return
	}

	var req saveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "template name is required")
		return
	}

	err := s.remoteTpl.SaveTemplate(r.Context(), notion.Template{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
		Type:    req.Type,
	})
	if err != nil {
		s.respondSourceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// respondSourceError maps workspace source failures onto the API error
// envelope.
func (s *Server) respondSourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notion.ErrNotConfigured):
		respondError(w, http.StatusInternalServerError, "Notion configuration missing")
	case errors.Is(err, notion.ErrRolePropertyMissing):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
