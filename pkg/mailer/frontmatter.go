package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a Markdown template file split into YAML frontmatter metadata
// and the message body.
type Document struct {
	Metadata map[string]any
	Body     string
}

// Subject returns the frontmatter subject line, or "" when absent.
func (d *Document) Subject() string {
	if s, ok := d.Metadata["subject"].(string); ok {
		return s
	}
	// Tolerate capitalized keys from hand-written files.
	if s, ok := d.Metadata["Subject"].(string); ok {
		return s
	}
	return ""
}

var frontmatterDelim = []byte("---")

// ParseDocument splits template file content into frontmatter metadata and
// Markdown body. Files without a leading "---" delimiter are returned whole
// as the body with empty metadata.
func ParseDocument(content []byte) (*Document, error) {
	if !bytes.HasPrefix(content, frontmatterDelim) {
		return &Document{Metadata: map[string]any{}, Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, frontmatterDelim), "\r\n")
	end := bytes.Index(rest, frontmatterDelim)
	if end == -1 {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	head := rest[:end]
	body := bytes.TrimPrefix(rest[end+len(frontmatterDelim):], []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	metadata := map[string]any{}
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	return &Document{Metadata: metadata, Body: string(body)}, nil
}
