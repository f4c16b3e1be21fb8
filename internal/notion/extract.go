package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/noreplysender/noreplysender/internal/recipient"
)

// recipientFromPage flattens a recipient database row into a substitution
// record. Keys are lower-cased so {{Name}} and {{name}} resolve alike, the
// title property doubles as "name", and "mail" aliases to "email". Rows
// without an email yield nil.
func recipientFromPage(page notionapi.Page) recipient.Recipient {
	r := recipient.Recipient{}

	for key, prop := range page.Properties {
		value, ok := propertyValue(prop)
		if !ok {
			continue
		}
		r[strings.ToLower(key)] = value

		if _, isTitle := prop.(*notionapi.TitleProperty); isTitle {
			r["name"] = value
		}
	}

	if _, ok := r["email"]; !ok {
		if mail, ok := r["mail"]; ok {
			r["email"] = mail
		}
	}

	if r.Email() == "" {
		return nil
	}
	return r
}

// propertyValue extracts a scalar from the supported Notion property types.
// Unsupported types report ok=false and are skipped.
func propertyValue(prop notionapi.Property) (any, bool) {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return plainText(p.Title), true
	case *notionapi.RichTextProperty:
		return plainText(p.RichText), true
	case *notionapi.EmailProperty:
		return p.Email, p.Email != ""
	case *notionapi.PhoneNumberProperty:
		return p.PhoneNumber, p.PhoneNumber != ""
	case *notionapi.NumberProperty:
		return p.Number, true
	case *notionapi.URLProperty:
		return p.URL, p.URL != ""
	case *notionapi.SelectProperty:
		return p.Select.Name, p.Select.Name != ""
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return strings.Join(names, ", "), true
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return nil, false
		}
		return time.Time(*p.Date.Start).Format(time.RFC3339), true
	case *notionapi.CheckboxProperty:
		return p.Checkbox, true
	case *notionapi.FormulaProperty:
		switch p.Formula.Type {
		case notionapi.FormulaTypeString:
			return p.Formula.String, true
		case notionapi.FormulaTypeNumber:
			return p.Formula.Number, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// plainText joins the plain text of a rich text array.
func plainText(parts []notionapi.RichText) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.PlainText)
	}
	return b.String()
}
