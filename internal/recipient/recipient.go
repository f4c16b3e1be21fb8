// Package recipient normalizes caller-supplied recipient lists and applies
// per-recipient placeholder substitution to rendered message bodies.
package recipient

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidInput indicates the recipients field was not a string, a string
// array, or an object array.
var ErrInvalidInput = errors.New("recipient: input must be a string, string array, or object array")

// Recipient is a normalized record of attributes for one addressee. It
// carries at least a non-empty "email" field; every other field exists only
// for placeholder substitution.
type Recipient map[string]any

// Email returns the record's email address, or "" when absent.
func (r Recipient) Email() string {
	s, _ := r["email"].(string)
	return strings.TrimSpace(s)
}

// Input accepts the three recipient list shapes produced by upstream
// callers: a single address string, an array of "email[, name]" strings, or
// an array of attribute mappings. The shape is resolved once at decode time;
// nothing downstream branches on it again.
type Input struct {
	rows []Recipient
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		in.rows = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		in.rows = []Recipient{parseAddressRow(s)}
		return nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}
		rows := make([]Recipient, 0, len(elems))
		for _, el := range elems {
			el = bytes.TrimSpace(el)
			if len(el) == 0 {
				continue
			}
			switch el[0] {
			case '"':
				var s string
				if err := json.Unmarshal(el, &s); err != nil {
					return err
				}
				rows = append(rows, parseAddressRow(s))
			case '{':
				var m map[string]any
				if err := json.Unmarshal(el, &m); err != nil {
					return err
				}
				rows = append(rows, Recipient(m))
			default:
				return ErrInvalidInput
			}
		}
		in.rows = rows
		return nil
	default:
		return ErrInvalidInput
	}
}

// parseAddressRow splits an "email[, name]" string on the first comma.
// Without a comma the name field stays absent; the fallback choice belongs
// to substitution time, not here.
func parseAddressRow(s string) Recipient {
	email, name, found := strings.Cut(s, ",")
	r := Recipient{"email": strings.TrimSpace(email)}
	if found {
		r["name"] = strings.TrimSpace(name)
	}
	return r
}

// Normalize resolves the input into an ordered sequence of deliverable
// recipients. Records lacking a resolvable email are excluded, never
// erroring; the count of exclusions is reported so callers can surface it.
func (in *Input) Normalize() (recipients []Recipient, skipped int) {
	recipients = make([]Recipient, 0, len(in.rows))
	for _, r := range in.rows {
		if r.Email() == "" {
			if m, ok := r["mail"].(string); ok && strings.TrimSpace(m) != "" {
				r["email"] = strings.TrimSpace(m)
			}
		}
		if r.Email() == "" {
			skipped++
			continue
		}
		recipients = append(recipients, r)
	}
	return recipients, skipped
}

// stringify renders a field value for substitution. Absent and null values
// become the empty string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
