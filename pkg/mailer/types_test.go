package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice@example.com", Address("", "alice@example.com"))
	assert.Equal(t, "Alice <alice@example.com>", Address("Alice", "alice@example.com"))
}

func TestSimpleTags(t *testing.T) {
	t.Parallel()

	tags := SimpleTags("otp", "bulk")
	assert.Len(t, tags, 2)
	assert.Equal(t, struct{}{}, tags["otp"])
	assert.Equal(t, struct{}{}, tags["bulk"])
}
