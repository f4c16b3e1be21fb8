package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler duplicates records across two handlers, typically stdout and
// Sentry. A record is delivered to each handler that accepts its level;
// delivery failures are joined rather than short-circuiting, so one broken
// sink cannot silence the other.
type teeHandler struct {
	a, b slog.Handler
}

func tee(a, b slog.Handler) slog.Handler {
	return &teeHandler{a: a, b: b}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.a.Enabled(ctx, level) || h.b.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var errA, errB error
	if h.a.Enabled(ctx, rec.Level) {
		errA = h.a.Handle(ctx, rec.Clone())
	}
	if h.b.Enabled(ctx, rec.Level) {
		errB = h.b.Handle(ctx, rec.Clone())
	}
	return errors.Join(errA, errB)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tee(h.a.WithAttrs(attrs), h.b.WithAttrs(attrs))
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return tee(h.a.WithGroup(name), h.b.WithGroup(name))
}
