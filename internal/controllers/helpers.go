package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sayanlabs/auth-service/internal/utils"
)

// bearerToken extracts the credential from an Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// respondUnauthorized collapses every token-verification failure to one
// public message. Decode, role and revocation failures must be
// indistinguishable from the outside.
func respondUnauthorized(w http.ResponseWriter, err error) {
	utils.RespondErrorWithCode(
		w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unauthorized", nil, err,
	)
}

// otpErrorType maps an OTP sentinel to the error_type exposed to the
// client. OTP failures ARE distinguished: the UX needs to tell a wrong
// code from an expired one from too many tries.
func otpErrorType(err error) (string, bool) {
	switch {
	case errors.Is(err, utils.ErrOTPNotFound):
		return utils.ErrCodeOTPNotFound, true
	case errors.Is(err, utils.ErrOTPExpired):
		return utils.ErrCodeOTPExpired, true
	case errors.Is(err, utils.ErrOTPAttemptsExhausted):
		return utils.ErrCodeOTPAttemptsExhausted, true
	case errors.Is(err, utils.ErrOTPMismatch):
		return utils.ErrCodeOTPMismatch, true
	}
	return "", false
}
