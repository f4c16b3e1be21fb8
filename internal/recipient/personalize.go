package recipient

import (
	"regexp"
	"strings"
)

var namePlaceholder = regexp.MustCompile(`(?i)\{\{name\}\}`)

// Personalize substitutes {{field}} placeholders in the shared rendered HTML
// with this recipient's attribute values. Matching is case-insensitive on
// the field name; placeholders without a matching field are left verbatim.
// The input string is never mutated; each recipient gets its own copy.
//
// The name placeholder gets two extra rules: records carrying only a
// capitalized "Name" field (upstream capitalization variance) still resolve
// {{name}}, and when no name field exists at all, nameFallback is used when
// non-empty.
func Personalize(html string, r Recipient, nameFallback string) string {
	out := html
	for key, value := range r {
		out = placeholderPattern(key).ReplaceAllLiteralString(out, stringify(value))
	}

	if _, ok := r["name"]; !ok {
		if capitalized, ok := r["Name"]; ok {
			out = namePlaceholder.ReplaceAllLiteralString(out, stringify(capitalized))
		} else if nameFallback != "" {
			out = namePlaceholder.ReplaceAllLiteralString(out, nameFallback)
		}
	}

	return out
}

// placeholderPattern builds a case-insensitive matcher for {{key}}.
func placeholderPattern(key string) *regexp.Regexp {
	if strings.EqualFold(key, "name") {
		return namePlaceholder
	}
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta("{{"+key+"}}"))
}
