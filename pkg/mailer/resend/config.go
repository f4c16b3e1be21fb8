package resend

// Config holds Resend email provider configuration.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`
}

// Configured reports whether the provider has enough configuration to send.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.SenderEmail != ""
}
