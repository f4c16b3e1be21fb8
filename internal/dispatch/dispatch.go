// Package dispatch runs the bulk send loop: one transport attempt per
// recipient, strictly in input order, with per-recipient failure isolation
// and incremental delivery reporting.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/noreplysender/noreplysender/internal/recipient"
	"github.com/noreplysender/noreplysender/pkg/mailer"
)

// Status is the terminal delivery state of one recipient.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Event is the per-recipient delivery record streamed to the caller as soon
// as the outcome is known.
type Event struct {
	Email     string `json:"email"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Prologue opens the stream with batch counts so the caller knows how many
// events to expect and how many records were excluded before dispatch.
type Prologue struct {
	Total   int `json:"total"`
	Skipped int `json:"skipped"`
}

// Completion is the terminal stream frame. Emitted exactly once, after the
// last Event.
type Completion struct {
	Done bool `json:"done"`
}

// Reporter receives stream frames. A Send error means the caller has
// disconnected; the loop treats it as cancellation.
type Reporter interface {
	Send(v any) error
}

// Job is the unit of work for one send request, already authorized and
// rendered. Body is the sanitized HTML fragment before placeholder
// substitution.
type Job struct {
	ID         string
	Subject    string
	Body       string
	Recipients []recipient.Recipient
	Skipped    int
}

// Dispatcher owns the mail transport for the duration of one job.
type Dispatcher struct {
	sender         mailer.Sender
	renderer       *mailer.Renderer
	log            *slog.Logger
	attemptTimeout time.Duration
	nameFallback   string
	now            func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAttemptTimeout bounds a single transport attempt so one hung
// connection cannot stall the whole batch. Default 30s.
func WithAttemptTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.attemptTimeout = d
		}
	}
}

// WithNameFallback sets the literal substituted for {{name}} when a
// recipient has no name field. Empty disables the fallback, leaving the
// placeholder verbatim.
func WithNameFallback(s string) Option {
	return func(dp *Dispatcher) {
		dp.nameFallback = s
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(log *slog.Logger) Option {
	return func(dp *Dispatcher) {
		if log != nil {
			dp.log = log
		}
	}
}

// WithClock replaces the event timestamp clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(dp *Dispatcher) {
		if now != nil {
			dp.now = now
		}
	}
}

// New creates a Dispatcher sending through the given transport.
func New(sender mailer.Sender, renderer *mailer.Renderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:         sender,
		renderer:       renderer,
		log:            slog.New(slog.DiscardHandler),
		attemptTimeout: 30 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the job: personalize, send, report, one recipient at a time.
// Transport failures are recorded as failed Events and never abort the loop.
// A Reporter error or context cancellation stops iteration early; Run then
// returns without emitting the Completion frame, since no one is listening.
func (d *Dispatcher) Run(ctx context.Context, job Job, rep Reporter) error {
	if err := rep.Send(Prologue{Total: len(job.Recipients), Skipped: job.Skipped}); err != nil {
		return err
	}

	for _, rcpt := range job.Recipients {
		if err := ctx.Err(); err != nil {
			return err
		}

		event := d.deliver(ctx, job, rcpt)
		if event.Status == StatusFailed {
			d.log.WarnContext(ctx, "delivery failed",
				slog.String("job_id", job.ID),
				slog.String("email", event.Email),
				slog.String("error", event.Error),
			)
		}

		if err := rep.Send(event); err != nil {
			d.log.InfoContext(ctx, "client disconnected, stopping dispatch",
				slog.String("job_id", job.ID),
			)
			return err
		}
	}

	return rep.Send(Completion{Done: true})
}

// deliver personalizes the shared body for one recipient and attempts
// transport delivery under the per-attempt timeout.
func (d *Dispatcher) deliver(ctx context.Context, job Job, rcpt recipient.Recipient) Event {
	personalized := recipient.Personalize(job.Body, rcpt, d.nameFallback)
	html := d.renderer.Finalize(personalized)

	attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
	defer cancel()

	email := &mailer.Email{
		To:      []string{rcpt.Email()},
		Subject: job.Subject,
		HTML:    html,
	}
	if job.ID != "" {
		email.Tags = mailer.Tags{"job": job.ID}
	}

	event := Event{
		Email:     rcpt.Email(),
		Status:    StatusSent,
		Timestamp: d.now().UTC().Format(time.RFC3339),
	}
	if err := d.sender.Send(attemptCtx, email); err != nil {
		event.Status = StatusFailed
		event.Error = fmt.Sprintf("%v", err)
	}

	return event
}
