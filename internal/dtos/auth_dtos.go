package dtos

// ----------------------
// Login / refresh / logout
// ----------------------

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenPairResponse is the credential envelope returned on login,
// OTP verification and refresh.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	UserType     string `json:"user_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutResponse reports whether the token actually landed on the
// blacklist. False means the logout was accepted but degraded: the
// token could not be invalidated and remains live until expiry.
type LogoutResponse struct {
	TokensInvalidated bool `json:"tokens_invalidated"`
}
