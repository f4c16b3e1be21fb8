// Package notion resolves recipient lists and message templates from Notion
// workspace databases.
//
// The recipient database is any table carrying an email column and a "role"
// multi-select used for audience filtering; every other column becomes a
// substitution field on the normalized recipient record.
package notion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/noreplysender/noreplysender/internal/recipient"
)

var (
	// ErrNotConfigured indicates the Notion integration is missing its API
	// key or database ID.
	ErrNotConfigured = errors.New("notion: configuration missing")

	// ErrRolePropertyMissing indicates the recipient database has no
	// role/Role/Roles property to filter on.
	ErrRolePropertyMissing = errors.New(`notion: property "role" not found in database`)
)

// Config holds Notion integration configuration. The template database is
// optional; without it template listing falls back to the local store only.
type Config struct {
	APIKey             string `env:"NOTION_API_KEY"`
	DatabaseID         string `env:"NOTION_DATABASE_ID"`
	TemplateDatabaseID string `env:"NOTION_TEMPLATE_DATABASE_ID"`
}

// Configured reports whether the recipient database is reachable.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.DatabaseID != ""
}

// TemplatesConfigured reports whether the template database is reachable.
func (c Config) TemplatesConfigured() bool {
	return c.APIKey != "" && c.TemplateDatabaseID != ""
}

// Template is one stored message template.
type Template struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"filename"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Type    string `json:"type,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Client wraps the Notion API for recipient and template lookups.
type Client struct {
	api    *notionapi.Client
	config Config
}

// NewClient creates a Client. The returned client reports ErrNotConfigured
// from operations whose backing database is not configured.
func NewClient(cfg Config) *Client {
	return &Client{
		api:    notionapi.NewClient(notionapi.Token(cfg.APIKey)),
		config: cfg,
	}
}

// roleNames are the property names accepted for the role column, checked
// in order.
var roleNames = []string{"role", "Role", "Roles"}

// rolePropertyName finds the role property of the recipient database.
func (c *Client) rolePropertyName(ctx context.Context) (string, error) {
	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(c.config.DatabaseID))
	if err != nil {
		return "", fmt.Errorf("notion: retrieve database: %w", err)
	}
	for _, name := range roleNames {
		if _, ok := db.Properties[name]; ok {
			return name, nil
		}
	}
	return "", ErrRolePropertyMissing
}

// ListRecipients queries the recipient database for rows whose role
// multi-select contains any of the given roles. Rows without a resolvable
// email are dropped. An empty role set returns no recipients.
func (c *Client) ListRecipients(ctx context.Context, roles []string) ([]recipient.Recipient, error) {
	if !c.config.Configured() {
		return nil, ErrNotConfigured
	}
	if len(roles) == 0 {
		return []recipient.Recipient{}, nil
	}

	roleProp, err := c.rolePropertyName(ctx)
	if err != nil {
		return nil, err
	}

	or := make(notionapi.OrCompoundFilter, 0, len(roles))
	for _, role := range roles {
		or = append(or, notionapi.PropertyFilter{
			Property:    roleProp,
			MultiSelect: &notionapi.MultiSelectFilterCondition{Contains: role},
		})
	}

	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(c.config.DatabaseID),
		&notionapi.DatabaseQueryRequest{Filter: or})
	if err != nil {
		return nil, fmt.Errorf("notion: query recipients: %w", err)
	}

	recipients := make([]recipient.Recipient, 0, len(resp.Results))
	for _, page := range resp.Results {
		if r := recipientFromPage(page); r != nil {
			recipients = append(recipients, r)
		}
	}
	return recipients, nil
}

// ListRoles returns the distinct options of the role multi-select property.
func (c *Client) ListRoles(ctx context.Context) ([]string, error) {
	if !c.config.Configured() {
		return nil, ErrNotConfigured
	}

	db, err := c.api.Database.Get(ctx, notionapi.DatabaseID(c.config.DatabaseID))
	if err != nil {
		return nil, fmt.Errorf("notion: retrieve database: %w", err)
	}

	for _, name := range roleNames {
		cfg, ok := db.Properties[name]
		if !ok {
			continue
		}
		ms, ok := cfg.(*notionapi.MultiSelectPropertyConfig)
		if !ok {
			continue
		}
		roles := make([]string, 0, len(ms.MultiSelect.Options))
		for _, opt := range ms.MultiSelect.Options {
			roles = append(roles, opt.Name)
		}
		return roles, nil
	}

	return nil, ErrRolePropertyMissing
}

// ListTemplates returns the rows of the template database.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	if !c.config.TemplatesConfigured() {
		return []Template{}, nil
	}

	resp, err := c.api.Database.Query(ctx, notionapi.DatabaseID(c.config.TemplateDatabaseID),
		&notionapi.DatabaseQueryRequest{})
	if err != nil {
		return nil, fmt.Errorf("notion: query templates: %w", err)
	}

	templates := make([]Template, 0, len(resp.Results))
	for _, page := range resp.Results {
		t := templateFromPage(page)
		if t.Name != "" {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

// SaveTemplate creates a row in the template database.
func (c *Client) SaveTemplate(ctx context.Context, t Template) error {
	if !c.config.TemplatesConfigured() {
		return ErrNotConfigured
	}

	kind := t.Type
	if kind == "" {
		kind = "General"
	}

	_, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(c.config.TemplateDatabaseID),
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Title: []notionapi.RichText{{Text: &notionapi.Text{Content: t.Name}}},
			},
			"Subject": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: t.Subject}}},
			},
			"Body": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: t.Body}}},
			},
			"Type": notionapi.SelectProperty{
				Select: notionapi.Option{Name: kind},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notion: save template: %w", err)
	}
	return nil
}

// templateFromPage maps a template database row onto a Template. Property
// names are matched case-insensitively; the title property supplies the name.
func templateFromPage(page notionapi.Page) Template {
	t := Template{ID: string(page.ID), Source: "notion"}
	for key, prop := range page.Properties {
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			t.Name = plainText(p.Title)
		case *notionapi.RichTextProperty:
			switch strings.ToLower(key) {
			case "subject":
				t.Subject = plainText(p.RichText)
			case "body", "content":
				t.Body = plainText(p.RichText)
			}
		case *notionapi.SelectProperty:
			if strings.ToLower(key) == "type" {
				t.Type = p.Select.Name
			}
		}
	}
	return t
}
