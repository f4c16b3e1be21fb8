package mailer

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/noreplysender/noreplysender/pkg/sanitizer"
)

//go:embed layout.html
var defaultLayout string

// Renderer converts a Markdown message body into sanitized HTML and wraps it
// into a complete email document. Render is called once per send job;
// Finalize once per recipient, after placeholder substitution.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	layout *template.Template
	lang   string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLayout overrides the embedded email layout. The layout is an
// html/template source that must reference {{.Content}}.
func WithLayout(src string) RendererOption {
	return func(r *Renderer) {
		r.layout = template.Must(template.New("layout").Parse(src))
	}
}

// WithPolicy overrides the HTML sanitization policy.
func WithPolicy(p *bluemonday.Policy) RendererOption {
	return func(r *Renderer) {
		r.policy = p
	}
}

// WithLang sets the lang attribute of the rendered document.
func WithLang(lang string) RendererOption {
	return func(r *Renderer) {
		r.lang = lang
	}
}

// NewRenderer creates a Renderer with GFM markdown support, the email
// sanitization policy, and the embedded default layout.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		policy: sanitizer.EmailPolicy(),
		layout: template.Must(template.New("layout").Parse(defaultLayout)),
		lang:   "en",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Render converts a Markdown source body into a sanitized HTML fragment.
// Placeholder tokens ({{field}}) pass through unchanged so that substitution
// can happen per recipient on the shared result.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Finalize wraps a personalized HTML fragment into the full email document.
// The fragment is trusted at this point: it is the sanitized Render output
// with per-recipient placeholder values substituted in.
func (r *Renderer) Finalize(fragment string) string {
	var buf bytes.Buffer
	err := r.layout.Execute(&buf, map[string]any{
		"Content": template.HTML(fragment), //nolint:gosec // sanitized upstream
		"Lang":    r.lang,
	})
	if err != nil {
		// Layouts are parsed at construction time; execution over a static
		// data map cannot fail with the embedded layout. Fall back to the
		// bare fragment for custom layouts that reference missing helpers.
		return fragment
	}
	return buf.String()
}
