package otp

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^\d{6}$`)
	for range 20 {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.Issue("admin@example.com", "123456")
	require.NoError(t, err)

	require.NoError(t, issuer.Verify(token, "admin@example.com", "123456"))
}

func TestIssuer_WrongCode(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.Issue("admin@example.com", "123456")
	require.NoError(t, err)

	assert.ErrorIs(t, issuer.Verify(token, "admin@example.com", "654321"), ErrCodeMismatch)
}

func TestIssuer_WrongIdentity(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.Issue("admin@example.com", "123456")
	require.NoError(t, err)

	assert.ErrorIs(t, issuer.Verify(token, "other@example.com", "123456"), ErrIdentityMismatch)
}

func TestIssuer_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issuer, err := NewIssuer("secret", WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	token, err := issuer.Issue("admin@example.com", "123456")
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)
	assert.ErrorIs(t, issuer.Verify(token, "admin@example.com", "123456"), ErrExpired)
}

func TestIssuer_CustomTTL(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issuer, err := NewIssuer("secret",
		WithTTL(time.Hour),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	token, err := issuer.Issue("admin@example.com", "123456")
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	assert.NoError(t, issuer.Verify(token, "admin@example.com", "123456"))
}

func TestIssuer_TamperedToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.Issue("admin@example.com", "123456")
	require.NoError(t, err)

	t.Run("flipped payload byte", func(t *testing.T) {
		t.Parallel()
		tampered := "A" + token[1:]
		assert.ErrorIs(t, issuer.Verify(tampered, "admin@example.com", "123456"), ErrBadToken)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()
		body, _, _ := strings.Cut(token, ".")
		assert.ErrorIs(t, issuer.Verify(body, "admin@example.com", "123456"), ErrBadToken)
	})

	t.Run("different secret", func(t *testing.T) {
		t.Parallel()
		other, err := NewIssuer("other-secret")
		require.NoError(t, err)
		assert.ErrorIs(t, other.Verify(token, "admin@example.com", "123456"), ErrBadToken)
	})
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("")
	require.Error(t, err)
}
