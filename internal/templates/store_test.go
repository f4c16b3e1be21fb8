package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_List(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"welcome.md": &fstest.MapFile{
			Data: []byte("---\nsubject: Welcome\n---\n# Hi {{name}}\n"),
		},
		"plain.md": &fstest.MapFile{
			Data: []byte("No frontmatter here.\n"),
		},
		"notes.txt": &fstest.MapFile{
			Data: []byte("not a template"),
		},
	}

	got, err := NewStore(fsys).List()
	require.NoError(t, err)
	require.Len(t, got, 2)

	// fs.ReadDir returns lexical order.
	assert.Equal(t, "plain.md", got[0].Filename)
	assert.Empty(t, got[0].Subject)
	assert.Equal(t, "No frontmatter here.\n", got[0].Body)

	assert.Equal(t, "welcome.md", got[1].Filename)
	assert.Equal(t, "Welcome", got[1].Subject)
	assert.Equal(t, "# Hi {{name}}\n", got[1].Body)
}

func TestStore_List_Empty(t *testing.T) {
	t.Parallel()

	got, err := NewStore(fstest.MapFS{}).List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_List_MalformedTemplate(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"broken.md": &fstest.MapFile{
			Data: []byte("---\nsubject: no closing delimiter\n"),
		},
	}

	_, err := NewStore(fsys).List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
}
