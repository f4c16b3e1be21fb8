package mailer

import "errors"

// Sentinel errors reported by senders and the renderer. Transport adapters
// wrap provider failures with ErrSendFailed-compatible messages; callers
// match with errors.Is.
var (
	ErrNoRecipient        = errors.New("email must have at least one recipient")
	ErrNoSubject          = errors.New("email must have a subject")
	ErrNoContent          = errors.New("email must have HTML content")
	ErrRenderFailed       = errors.New("failed to render message body")
	ErrSendFailed         = errors.New("failed to send email")
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)
