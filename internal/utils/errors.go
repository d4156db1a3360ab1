package utils

import "errors"

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons.
var (
	// Token verification. All three surface to callers as a generic
	// "unauthorized" so a forger cannot tell which check failed.
	ErrTokenDecode  = errors.New("token_decode_failed")
	ErrRoleMismatch = errors.New("token_role_mismatch")
	ErrTokenRevoked = errors.New("token_revoked")

	// OTP verification. These ARE distinguished to the caller.
	ErrOTPNotFound          = errors.New("otp_not_found")
	ErrOTPExpired           = errors.New("otp_expired")
	ErrOTPAttemptsExhausted = errors.New("otp_attempts_exhausted")
	ErrOTPMismatch          = errors.New("otp_mismatch")

	ErrUserNotFound    = errors.New("user_not_found")
	ErrAccountInactive = errors.New("account_inactive")
	ErrUnknownRole     = errors.New("unknown_role")
	ErrUnknownPurpose  = errors.New("unknown_purpose")

	// Infrastructure failure (DB down, etc.). Must propagate on the
	// verify/revoke paths, never be read as "not blacklisted".
	ErrStoreUnavailable = errors.New("store_unavailable")

	// For external service failures (e.g., Twilio, SendGrid)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)
