package models

import (
	"time"

	"github.com/google/uuid"
)

// RevocationReason records why a token was blacklisted.
type RevocationReason string

const (
	ReasonLogout      RevocationReason = "logout"
	ReasonSecurity    RevocationReason = "security"
	ReasonAdminAction RevocationReason = "admin_action"
)

// BlacklistedToken represents a revoked or invalidated token. The row is
// keyed by TokenID (the jti claim) and stays authoritative until the
// token's original expiry passes; after that it is dead weight eligible
// for cleanup, since expiry alone already rejects the token.
type BlacklistedToken struct {
	ID            uuid.UUID        `json:"id"`
	TokenID       string           `json:"token_id"` // JTI (JWT ID) claim from the token
	UserID        string           `json:"user_id"`
	Role          Role             `json:"user_type"`
	TokenType     TokenType        `json:"token_type"`
	ExpiresAt     time.Time        `json:"expires_at"` // Original token expiration time
	BlacklistedAt time.Time        `json:"blacklisted_at"`
	Reason        RevocationReason `json:"reason"`
	IsActive      bool             `json:"is_active"`
}

// Expired reports whether the underlying token has outlived its own exp
// claim, making this entry redundant.
func (b *BlacklistedToken) Expired(now time.Time) bool {
	return !now.Before(b.ExpiresAt)
}
