// Package sanitizer provides bluemonday policies for HTML destined for
// email clients.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPolicy  *bluemonday.Policy
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Strips ALL HTML, returns plain text.
		strictPolicy = bluemonday.StrictPolicy()

		// Email clients render a narrow, old-fashioned subset of HTML.
		// Allow the elements Markdown produces plus inline styling; strip
		// scripts, event handlers, and javascript: URLs.
		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowStandardURLs()
		emailPolicy.AllowElements(
			"h1", "h2", "h3", "h4", "h5", "h6",
			"p", "br", "hr", "div", "span",
			"strong", "b", "em", "i", "u", "s", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		emailPolicy.AllowAttrs("href").OnElements("a")
		emailPolicy.AllowImages()
		emailPolicy.AllowAttrs("style").Globally()
		emailPolicy.AllowAttrs("align").OnElements("p", "div", "td", "th")
	})
}

// EmailPolicy returns the shared policy for HTML email bodies.
func EmailPolicy() *bluemonday.Policy {
	initPolicies()
	return emailPolicy
}

// SanitizeEmailHTML applies the email policy to the given HTML.
func SanitizeEmailHTML(s string) string {
	return EmailPolicy().Sanitize(s)
}

// StripHTML removes all markup, returning plain text.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}
