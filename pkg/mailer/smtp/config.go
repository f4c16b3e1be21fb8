package smtp

// Config holds SMTP relay configuration.
// Port 465 uses implicit TLS; other ports negotiate STARTTLS when offered.
type Config struct {
	Host        string `env:"SMTP_HOST"`
	Port        int    `env:"SMTP_PORT" envDefault:"587"`
	User        string `env:"SMTP_USER"`
	Pass        string `env:"SMTP_PASS"`
	SenderEmail string `env:"SMTP_FROM"`
	SenderName  string `env:"SMTP_FROM_NAME"`
}

// Configured reports whether the relay has enough configuration to send.
func (c Config) Configured() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

// From returns the effective sender address, falling back to the
// authentication user when no explicit sender is configured.
func (c Config) From() string {
	if c.SenderEmail != "" {
		return c.SenderEmail
	}
	return c.User
}
