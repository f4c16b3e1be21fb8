// Package auth holds the job authorization gate and the optional OTP
// step-up flow.
package auth

import (
	"crypto/subtle"
	"errors"
)

var (
	// ErrUnauthorized indicates the presented credential does not match the
	// configured admin secret.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrNotConfigured indicates no admin secret is configured; every job is
	// refused until one is set.
	ErrNotConfigured = errors.New("auth: admin password not configured")
)

// Gate validates the shared admin credential before any job work begins.
type Gate struct {
	secret []byte
}

// NewGate creates a Gate around the configured admin secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Authorize checks the presented password. Comparison is constant-time.
func (g *Gate) Authorize(password string) error {
	if len(g.secret) == 0 {
		return ErrNotConfigured
	}
	if subtle.ConstantTimeCompare(g.secret, []byte(password)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
