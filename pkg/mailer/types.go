package mailer

import "fmt"

// Email is one message ready for transport. The HTML body is final: rendered,
// sanitized, and personalized before it reaches a Sender.
type Email struct {
	To      []string
	Subject string
	HTML    string
	// Text is an optional plain-text alternative.
	Text string
	// From overrides the transport's configured sender when non-empty.
	From    string
	ReplyTo string
	Headers map[string]string
	Tags    Tags
}

// Tags label a message for the provider's analytics. Values may be any
// scalar; presence-only tags use struct{}{} and adapters render them as
// "true" where the provider wants a value.
type Tags map[string]any

// SimpleTags builds presence-only Tags from names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Address formats "Name <email>", or the bare address when name is empty.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
