package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Authorize(t *testing.T) {
	t.Parallel()

	gate := NewGate("s3cret")

	require.NoError(t, gate.Authorize("s3cret"))
	assert.ErrorIs(t, gate.Authorize("wrong"), ErrUnauthorized)
	assert.ErrorIs(t, gate.Authorize(""), ErrUnauthorized)
}

func TestGate_Unconfigured(t *testing.T) {
	t.Parallel()

	gate := NewGate("")

	// With no secret configured every credential is refused, including the
	// empty one.
	assert.ErrorIs(t, gate.Authorize(""), ErrNotConfigured)
	assert.ErrorIs(t, gate.Authorize("anything"), ErrNotConfigured)
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "op***@example.com", MaskEmail("operator@example.com"))
	assert.Equal(t, "ab***@x.io", MaskEmail("ab@x.io"))
}
