package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_Markdown(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got, err := r.Render("# Hello\n\nSome **bold** text.")
	require.NoError(t, err)

	assert.Contains(t, got, "<h1")
	assert.Contains(t, got, "<strong>bold</strong>")
}

func TestRenderer_Render_PlaceholdersSurvive(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got, err := r.Render("Hello {{name}}, your email is {{email}}")
	require.NoError(t, err)

	assert.Contains(t, got, "{{name}}")
	assert.Contains(t, got, "{{email}}")
}

func TestRenderer_Render_StripsScripts(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got, err := r.Render("Hi\n\n<script>alert(1)</script>\n<p onclick=\"x()\">click</p>")
	require.NoError(t, err)

	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "click")
}

func TestRenderer_Render_GFMTable(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)

	assert.Contains(t, got, "<table")
	assert.Contains(t, got, "<td")
}

func TestRenderer_Finalize_WrapsLayout(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got := r.Finalize("<p>body here</p>")

	assert.Contains(t, got, "<!DOCTYPE html>")
	assert.Contains(t, got, `lang="en"`)
	assert.Contains(t, got, "email-container")
	assert.Contains(t, got, "<p>body here</p>")
}

func TestRenderer_Finalize_CustomLangAndLayout(t *testing.T) {
	t.Parallel()

	t.Run("lang", func(t *testing.T) {
		t.Parallel()
		r := NewRenderer(WithLang("zh-CN"))
		assert.Contains(t, r.Finalize("<p>x</p>"), `lang="zh-CN"`)
	})

	t.Run("layout", func(t *testing.T) {
		t.Parallel()
		r := NewRenderer(WithLayout(`<main>{{.Content}}</main>`))
		assert.Equal(t, "<main><p>x</p></main>", r.Finalize("<p>x</p>"))
	})
}
