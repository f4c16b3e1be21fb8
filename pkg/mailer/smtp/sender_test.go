package smtp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noreplysender/noreplysender/pkg/mailer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{Host: "smtp.example.com", Port: 587})
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("missing host", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{Port: 587})
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{Host: "smtp.example.com", Port: 0})
		assert.Error(t, err)
		_, err = New(Config{Host: "smtp.example.com", Port: 70000})
		assert.Error(t, err)
	})
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)
	s.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	msg := string(s.buildMessage(&mailer.Email{
		To:      []string{"a@x.com", "b@x.com"},
		ReplyTo: "replies@x.com",
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
		Headers: map[string]string{"X-Campaign": "launch"},
	}, `"Acme" <news@acme.com>`))

	head, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found, "message must separate headers from body")

	assert.Contains(t, head, "From: \"Acme\" <news@acme.com>\r\n")
	assert.Contains(t, head, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, head, "Reply-To: replies@x.com\r\n")
	assert.Contains(t, head, "Subject: Hello\r\n")
	assert.Contains(t, head, "Date: Sun, 01 Mar 2026 12:00:00 +0000\r\n")
	assert.Contains(t, head, "MIME-Version: 1.0\r\n")
	assert.Contains(t, head, "X-Campaign: launch\r\n")
	assert.Contains(t, head, `Content-Type: text/html; charset="UTF-8"`)
	assert.Equal(t, "<p>Hi</p>\r\n", body)
}

func TestBuildMessage_EncodesSubject(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)

	msg := string(s.buildMessage(&mailer.Email{
		To:      []string{"a@x.com"},
		Subject: "欢迎加入",
		HTML:    "<p>Hi</p>",
	}, "news@acme.com"))

	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.NotContains(t, msg, "Subject: 欢迎加入")
}

func TestEnvelopeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"a@x.com", "a@x.com"},
		{"  a@x.com  ", "a@x.com"},
		{"Ann <a@x.com>", "a@x.com"},
		{`"Lee, Ann" <a@x.com>`, "a@x.com"},
		{"<a@x.com>", "a@x.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, envelopeAddress(tt.in), "input %q", tt.in)
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("configured requires host user pass", func(t *testing.T) {
		t.Parallel()

		assert.False(t, Config{}.Configured())
		assert.False(t, Config{Host: "h", User: "u"}.Configured())
		assert.True(t, Config{Host: "h", User: "u", Pass: "p"}.Configured())
	})

	t.Run("from falls back to user", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "news@acme.com", Config{SenderEmail: "news@acme.com", User: "u@acme.com"}.From())
		assert.Equal(t, "u@acme.com", Config{User: "u@acme.com"}.From())
	})
}
