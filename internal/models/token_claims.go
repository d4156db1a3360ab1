package models

import (
	"time"
)

// TokenType distinguishes access from refresh tokens in blacklist rows.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims is the decoded payload of an issued JWT. Immutable after
// issuance; a token dies only by outliving ExpiresAt or by a blacklist
// entry on its TokenID.
type TokenClaims struct {
	Subject   string         `json:"sub"`
	Role      Role           `json:"type"`
	TokenID   string         `json:"jti"`
	IssuedAt  time.Time      `json:"iat"`
	ExpiresAt time.Time      `json:"exp"`
	IsRefresh bool           `json:"refresh,omitempty"`
	Extra     map[string]any `json:"-"`
}

func (c *TokenClaims) TokenType() TokenType {
	if c.IsRefresh {
		return TokenTypeRefresh
	}
	return TokenTypeAccess
}
