package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/noreplysender/noreplysender/pkg/mailer"
	"github.com/noreplysender/noreplysender/pkg/otp"
)

// ErrOTPDisabled indicates the step-up flow is switched off by configuration.
var ErrOTPDisabled = errors.New("auth: otp verification is disabled")

// OTPConfig holds step-up verification configuration. When enabled, codes
// are delivered to the configured operator address regardless of the
// identity that requested them.
type OTPConfig struct {
	Enabled bool   `env:"OTP_ENABLE"`
	Email   string `env:"OTP_EMAIL"`
}

// OTPService issues and verifies emailed one-time passcodes. Challenges are
// stateless signed tokens; nothing is kept in process memory between the
// request and verify calls.
type OTPService struct {
	config   OTPConfig
	issuer   *otp.Issuer
	sender   mailer.Sender
	renderer *mailer.Renderer
	log      *slog.Logger
}

// NewOTPService wires the step-up flow. Returns an error when enabled
// without a delivery address.
func NewOTPService(cfg OTPConfig, issuer *otp.Issuer, sender mailer.Sender, renderer *mailer.Renderer, log *slog.Logger) (*OTPService, error) {
	if cfg.Enabled && cfg.Email == "" {
		return nil, errors.New("auth: OTP_EMAIL is required when OTP is enabled")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &OTPService{
		config:   cfg,
		issuer:   issuer,
		sender:   sender,
		renderer: renderer,
		log:      log,
	}, nil
}

// Enabled reports whether step-up verification is required.
func (s *OTPService) Enabled() bool {
	return s.config.Enabled
}

// Challenge is the result of requesting a step-up code.
type Challenge struct {
	// Token is the signed challenge the caller must re-present on verify.
	Token string
	// MaskedEmail is the partially hidden delivery address, safe to show.
	MaskedEmail string
}

// Request generates a code for identity, emails it to the operator address,
// and returns the signed challenge token.
func (s *OTPService) Request(ctx context.Context, identity string) (*Challenge, error) {
	if !s.config.Enabled {
		return nil, ErrOTPDisabled
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(identity, code)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf(codeMessage, code)
	fragment, err := s.renderer.Render(body)
	if err != nil {
		return nil, err
	}

	err = s.sender.Send(ctx, &mailer.Email{
		To:      []string{s.config.Email},
		Subject: "Login verification code",
		HTML:    s.renderer.Finalize(fragment),
		Text:    body,
		Tags:    mailer.SimpleTags("otp"),
	})
	if err != nil {
		return nil, fmt.Errorf("auth: send otp email: %w", err)
	}

	s.log.InfoContext(ctx, "otp challenge issued", slog.String("identity", identity))

	return &Challenge{
		Token:       token,
		MaskedEmail: MaskEmail(s.config.Email),
	}, nil
}

// Verify checks a presented code against its challenge token.
func (s *OTPService) Verify(token, identity, code string) error {
	if !s.config.Enabled {
		return ErrOTPDisabled
	}
	return s.issuer.Verify(token, identity, code)
}

const codeMessage = `## Login verification

You are signing in to the mail sender console.

Your verification code is:

# %s

This code expires in **5 minutes**.

> If this was not you, ignore this message.
`

var maskPattern = regexp.MustCompile(`(.{2}).*(@.*)`)

// MaskEmail hides the middle of an address: "operator@x.com" -> "op***@x.com".
func MaskEmail(email string) string {
	return maskPattern.ReplaceAllString(email, "$1***$2")
}
