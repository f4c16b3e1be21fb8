// Package mailer provides email rendering and delivery primitives for the
// bulk send pipeline.
//
// The package is built around two pieces:
//
//   - Renderer converts a Markdown message body into sanitized HTML once per
//     send job, and wraps a (possibly personalized) HTML fragment into a
//     client-friendly email document.
//   - Sender is the minimal delivery interface implemented by the provider
//     adapters in the smtp and resend subpackages.
//
// Usage:
//
//	r := mailer.NewRenderer()
//	fragment, err := r.Render("# Hello {{name}}")
//	if err != nil {
//	    // malformed body, job-fatal
//	}
//	html := r.Finalize(fragment)
//	err = sender.Send(ctx, &mailer.Email{
//	    To:      []string{"alice@example.com"},
//	    Subject: "Hello",
//	    HTML:    html,
//	})
//
// Placeholder tokens such as {{name}} survive rendering and sanitization
// untouched; substitution happens downstream, per recipient.
package mailer
