// Package smtp implements mailer.Sender over a plain SMTP relay.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/noreplysender/noreplysender/pkg/mailer"
)

const implicitTLSPort = 465

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Sender implements mailer.Sender using net/smtp.
// Each Send opens a fresh connection to the relay; the dispatch loop owns the
// sender for the duration of one job and sends strictly sequentially, so no
// connection pooling is needed.
type Sender struct {
	config    Config
	auth      smtp.Auth
	tlsConfig *tls.Config
	dialer    Dialer
	helloName string
	now       func() time.Time
}

// Option configures the Sender.
type Option func(*Sender)

// WithTLSConfig overrides the TLS configuration used for implicit TLS and STARTTLS.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Sender) {
		s.tlsConfig = cfg
	}
}

// WithDialer swaps the network dialer used to reach the relay.
func WithDialer(d Dialer) Option {
	return func(s *Sender) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithHelloName customises the EHLO identity presented to the relay.
func WithHelloName(name string) Option {
	return func(s *Sender) {
		if strings.TrimSpace(name) != "" {
			s.helloName = strings.TrimSpace(name)
		}
	}
}

// New creates an SMTP sender from the given configuration.
func New(cfg Config, opts ...Option) (*Sender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp: invalid port %d", cfg.Port)
	}

	s := &Sender{
		config:    cfg,
		dialer:    &net.Dialer{Timeout: 30 * time.Second},
		helloName: "localhost",
		now:       time.Now,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}

	if cfg.User != "" {
		s.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}

	from := email.From
	if from == "" {
		from = mailer.Address(s.config.SenderName, s.config.From())
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", addr, err)
	}

	// Propagate the context deadline to the connection so a hung relay
	// cannot stall the dispatch loop past its per-attempt timeout.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if s.config.Port == implicitTLSPort {
		conn = tls.Client(conn, s.tlsConfig)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Hello(s.helloName); err != nil {
		return fmt.Errorf("smtp: hello: %w", err)
	}

	if s.config.Port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(s.tlsConfig); err != nil {
				return fmt.Errorf("smtp: starttls: %w", err)
			}
		}
	}

	if s.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(s.auth); err != nil {
				return fmt.Errorf("smtp: auth: %w", err)
			}
		}
	}

	if err := client.Mail(envelopeAddress(from)); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	for _, rcpt := range email.To {
		if err := client.Rcpt(envelopeAddress(rcpt)); err != nil {
			return fmt.Errorf("smtp: rcpt %s: %w", rcpt, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := wc.Write(s.buildMessage(email, from)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("smtp: write message: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp: finalize message: %w", err)
	}

	return client.Quit()
}

// buildMessage assembles an RFC 5322 message with an HTML body.
func (s *Sender) buildMessage(email *mailer.Email, from string) []byte {
	var buf bytes.Buffer

	write := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", key, value)
	}

	write("From", from)
	write("To", strings.Join(email.To, ", "))
	if email.ReplyTo != "" {
		write("Reply-To", email.ReplyTo)
	}
	write("Subject", mime.QEncoding.Encode("utf-8", email.Subject))
	write("Date", s.now().UTC().Format(time.RFC1123Z))
	write("MIME-Version", "1.0")
	for k, v := range email.Headers {
		write(k, v)
	}
	write("Content-Type", `text/html; charset="UTF-8"`)
	buf.WriteString("\r\n")
	buf.WriteString(email.HTML)
	buf.WriteString("\r\n")

	return buf.Bytes()
}

// envelopeAddress strips an RFC 5322 display name down to the bare address
// for use in MAIL FROM / RCPT TO commands.
func envelopeAddress(addr string) string {
	if i := strings.LastIndex(addr, "<"); i != -1 {
		if j := strings.LastIndex(addr, ">"); j > i {
			return addr[i+1 : j]
		}
	}
	return strings.TrimSpace(addr)
}
