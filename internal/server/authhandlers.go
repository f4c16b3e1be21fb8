package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noreplysender/noreplysender/internal/auth"
	"github.com/noreplysender/noreplysender/pkg/otp"
)

type otpRequest struct {
	Email string `json:"email"`
}

// handleOTPRequest issues a step-up challenge: a code is emailed to the
// operator address and the signed challenge token is returned to the caller
// for the verify step. When OTP is disabled the caller is told no step-up
// is required.
func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.otp == nil || !s.otp.Enabled() {
		respondJSON(w, http.StatusOK, map[string]any{
			"otpRequired": false,
			"message":     "OTP verification is disabled",
		})
		return
	}

	challenge, err := s.otp.Request(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"otpRequired": true,
		"message":     "OTP sent successfully",
		"otpEmail":    challenge.MaskedEmail,
		"challenge":   challenge.Token,
	})
}

type otpVerifyRequest struct {
	Email     string `json:"email"`
	OTP       string `json:"otp"`
	Challenge string `json:"challenge"`
}

// handleOTPVerify checks a presented code against its challenge token.
func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.otp == nil || !s.otp.Enabled() {
		respondJSON(w, http.StatusOK, map[string]any{"valid": true, "message": "OTP verification is disabled"})
		return
	}

	if err := s.otp.Verify(req.Challenge, req.Email, req.OTP); err != nil {
		message := "Invalid OTP"
		switch {
		case errors.Is(err, otp.ErrExpired):
			message = "OTP expired"
		case errors.Is(err, otp.ErrBadToken):
			message = "OTP not found or expired"
		case errors.Is(err, auth.ErrOTPDisabled):
			message = "OTP verification is disabled"
		}
		respondJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "error": message})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"valid": true, "message": "OTP verified successfully"})
}
