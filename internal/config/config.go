// Package config loads service configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/noreplysender/noreplysender/internal/auth"
	"github.com/noreplysender/noreplysender/internal/notion"
	"github.com/noreplysender/noreplysender/pkg/logger"
	"github.com/noreplysender/noreplysender/pkg/mailer/resend"
	"github.com/noreplysender/noreplysender/pkg/mailer/smtp"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// AdminPassword is the shared credential gating every send job.
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// OTPSecret signs step-up challenge tokens. Falls back to AdminPassword.
	OTPSecret string `env:"OTP_SECRET"`

	// MailProvider selects the transport adapter: "smtp" or "resend".
	MailProvider string `env:"MAIL_PROVIDER" envDefault:"smtp"`

	// AttemptTimeout bounds a single transport attempt during dispatch.
	AttemptTimeout time.Duration `env:"SEND_ATTEMPT_TIMEOUT" envDefault:"30s"`

	// NameFallback is substituted for {{name}} when a recipient has no name
	// field. Set empty to leave the placeholder verbatim instead.
	NameFallback string `env:"SEND_NAME_FALLBACK" envDefault:"Customer"`

	// TemplatesDir is the local template directory.
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`

	// LayoutLang is the lang attribute of the rendered email document.
	LayoutLang string `env:"MAIL_LAYOUT_LANG" envDefault:"en"`

	Logger logger.Config
	SMTP   smtp.Config
	Resend resend.Config
	Notion notion.Config
	OTP    auth.OTPConfig
}

// Load reads .env (when present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.OTPSecret == "" {
		cfg.OTPSecret = cfg.AdminPassword
	}

	return cfg, nil
}
