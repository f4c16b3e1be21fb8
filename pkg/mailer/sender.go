package mailer

import "context"

// Sender delivers one prepared message through a mail provider. The dispatch
// loop calls it once per recipient, so implementations must tolerate
// sequential reuse across a whole batch; To, Subject, and HTML are set by
// the caller.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
