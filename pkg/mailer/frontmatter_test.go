package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_WithFrontmatter(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte("---\nsubject: Welcome aboard\n---\n# Hello\n"))
	require.NoError(t, err)

	assert.Equal(t, "Welcome aboard", doc.Subject())
	assert.Equal(t, "# Hello\n", doc.Body)
}

func TestParseDocument_NoFrontmatter(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte("# Just a body\n"))
	require.NoError(t, err)

	assert.Empty(t, doc.Metadata)
	assert.Equal(t, "# Just a body\n", doc.Body)
}

func TestParseDocument_CapitalizedSubjectKey(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte("---\nSubject: Hi there\n---\nbody"))
	require.NoError(t, err)

	assert.Equal(t, "Hi there", doc.Subject())
}

func TestParseDocument_MissingClosingDelimiter(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte("---\nsubject: Oops\nbody without closing"))
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestParseDocument_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := ParseDocument([]byte("---\n: : :\n---\nbody"))
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestParseDocument_CRLF(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte("---\r\nsubject: Windows\r\n---\r\nbody"))
	require.NoError(t, err)

	assert.Equal(t, "Windows", doc.Subject())
	assert.Equal(t, "body", doc.Body)
}

func TestParseDocument_EmptyFrontmatter(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte("---\n---\nbody"))
	require.NoError(t, err)

	assert.Empty(t, doc.Metadata)
	assert.Equal(t, "body", doc.Body)
}
