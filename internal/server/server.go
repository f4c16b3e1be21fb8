// Package server wires the HTTP API: the bulk send endpoint with streamed
// delivery reporting, the OTP step-up endpoints, and the recipient/template
// source endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/noreplysender/noreplysender/internal/auth"
	"github.com/noreplysender/noreplysender/internal/dispatch"
	"github.com/noreplysender/noreplysender/internal/notion"
	"github.com/noreplysender/noreplysender/internal/recipient"
	"github.com/noreplysender/noreplysender/internal/templates"
	"github.com/noreplysender/noreplysender/pkg/mailer"
)

// RecipientSource resolves recipients and role options from the external
// workspace database.
type RecipientSource interface {
	ListRecipients(ctx context.Context, roles []string) ([]recipient.Recipient, error)
	ListRoles(ctx context.Context) ([]string, error)
}

// TemplateSource lists and stores message templates in the external
// workspace database.
type TemplateSource interface {
	ListTemplates(ctx context.Context) ([]notion.Template, error)
	SaveTemplate(ctx context.Context, t notion.Template) error
}

// LocalTemplates lists templates from the local directory.
type LocalTemplates interface {
	List() ([]templates.Template, error)
}

// Server holds the handler dependencies.
type Server struct {
	log        *slog.Logger
	gate       *auth.Gate
	otp        *auth.OTPService
	renderer   *mailer.Renderer
	dispatcher *dispatch.Dispatcher
	recipients RecipientSource
	remoteTpl  TemplateSource
	localTpl   LocalTemplates

	// mailReady is false when the selected transport lacks configuration;
	// send jobs are then rejected before any work happens.
	mailReady bool
}

// Option configures the Server.
type Option func(*Server)

// WithRecipientSource wires the workspace recipient database.
func WithRecipientSource(src RecipientSource) Option {
	return func(s *Server) {
		s.recipients = src
	}
}

// WithTemplateSource wires the workspace template database.
func WithTemplateSource(src TemplateSource) Option {
	return func(s *Server) {
		s.remoteTpl = src
	}
}

// WithLocalTemplates wires the local template directory.
func WithLocalTemplates(store LocalTemplates) Option {
	return func(s *Server) {
		s.localTpl = store
	}
}

// WithOTP wires the step-up verification flow.
func WithOTP(svc *auth.OTPService) Option {
	return func(s *Server) {
		s.otp = svc
	}
}

// New creates the Server. The dispatcher may be nil only when mailReady is
// false.
func New(log *slog.Logger, gate *auth.Gate, renderer *mailer.Renderer, dispatcher *dispatch.Dispatcher, mailReady bool, opts ...Option) *Server {
	s := &Server{
		log:        log,
		gate:       gate,
		renderer:   renderer,
		dispatcher: dispatcher,
		mailReady:  mailReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler with the middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(Recover(s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/send", s.handleSend)
		r.Post("/auth/otp", s.handleOTPRequest)
		r.Put("/auth/otp", s.handleOTPVerify)
		r.Post("/notion/recipients", s.handleNotionRecipients)
		r.Get("/notion/roles", s.handleNotionRoles)
		r.Post("/notion/templates", s.handleSaveTemplate)
		r.Get("/templates", s.handleListTemplates)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
