// Command noreplysender serves the bulk mail dispatch API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/noreplysender/noreplysender/internal/auth"
	"github.com/noreplysender/noreplysender/internal/config"
	"github.com/noreplysender/noreplysender/internal/dispatch"
	"github.com/noreplysender/noreplysender/internal/notion"
	"github.com/noreplysender/noreplysender/internal/server"
	"github.com/noreplysender/noreplysender/internal/templates"
	"github.com/noreplysender/noreplysender/pkg/logger"
	"github.com/noreplysender/noreplysender/pkg/mailer"
	"github.com/noreplysender/noreplysender/pkg/mailer/resend"
	"github.com/noreplysender/noreplysender/pkg/mailer/smtp"
	"github.com/noreplysender/noreplysender/pkg/otp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.Logger, server.RequestIDExtractor())

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := mailer.NewRenderer(mailer.WithLang(cfg.LayoutLang))

	sender, mailReady, err := buildSender(cfg)
	if err != nil {
		return err
	}
	if !mailReady {
		log.Warn("mail transport not configured, send jobs will be rejected",
			slog.String("provider", cfg.MailProvider))
	}

	var dispatcher *dispatch.Dispatcher
	if mailReady {
		dispatcher = dispatch.New(sender, renderer,
			dispatch.WithAttemptTimeout(cfg.AttemptTimeout),
			dispatch.WithNameFallback(cfg.NameFallback),
			dispatch.WithLogger(log),
		)
	}

	opts := []server.Option{
		server.WithLocalTemplates(templates.NewStore(os.DirFS(cfg.TemplatesDir))),
	}

	if cfg.Notion.Configured() || cfg.Notion.TemplatesConfigured() {
		client := notion.NewClient(cfg.Notion)
		opts = append(opts, server.WithRecipientSource(client), server.WithTemplateSource(client))
	}

	if cfg.OTP.Enabled && mailReady && cfg.OTPSecret != "" {
		issuer, err := otp.NewIssuer(cfg.OTPSecret)
		if err != nil {
			return err
		}
		otpSvc, err := auth.NewOTPService(cfg.OTP, issuer, sender, renderer, log)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithOTP(otpSvc))
	}

	srv := server.New(log, auth.NewGate(cfg.AdminPassword), renderer, dispatcher, mailReady, opts...)
	return srv.Run(ctx, cfg.Addr, cfg.ShutdownTimeout)
}

// buildSender constructs the configured transport adapter. A missing
// configuration is not fatal at startup; it surfaces per-job as the
// configuration error response.
func buildSender(cfg *config.Config) (mailer.Sender, bool, error) {
	switch cfg.MailProvider {
	case "resend":
		if !cfg.Resend.Configured() {
			return nil, false, nil
		}
		return resend.New(cfg.Resend), true, nil
	default:
		if !cfg.SMTP.Configured() {
			return nil, false, nil
		}
		sender, err := smtp.New(cfg.SMTP)
		if err != nil {
			return nil, false, err
		}
		return sender, true, nil
	}
}
