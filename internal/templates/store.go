// Package templates reads message templates from a local directory of
// Markdown files with YAML frontmatter.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/noreplysender/noreplysender/pkg/mailer"
)

// Template is one local template file: the frontmatter subject plus the
// Markdown body.
type Template struct {
	Filename string `json:"filename"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Store lists templates from a filesystem. A missing directory is treated
// as an empty store, matching a fresh deployment without templates.
type Store struct {
	fsys fs.FS
}

// NewStore creates a Store over the given filesystem root.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// List returns all *.md templates in lexical filename order.
func (s *Store) List() ([]Template, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Template{}, nil
		}
		return nil, fmt.Errorf("templates: read dir: %w", err)
	}

	templates := make([]Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		content, err := fs.ReadFile(s.fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("templates: read %s: %w", entry.Name(), err)
		}

		doc, err := mailer.ParseDocument(content)
		if err != nil {
			return nil, fmt.Errorf("templates: parse %s: %w", entry.Name(), err)
		}

		templates = append(templates, Template{
			Filename: entry.Name(),
			Subject:  doc.Subject(),
			Body:     doc.Body,
		})
	}

	return templates, nil
}
