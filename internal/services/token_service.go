package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/repositories"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// TokenService interface
// ---------------------------------------------------------------------

// TokenService mints, verifies and revokes role-keyed JWTs. Tokens are
// self-contained: verification is a decode plus one blacklist read, and
// nothing is persisted at issuance time.
type TokenService interface {
	// IssueAccessToken mints a fresh access token with a new jti. A
	// non-positive ttl falls back to the configured access expiry.
	// extra claims are embedded verbatim and are never used for
	// authorization decisions.
	IssueAccessToken(
		ctx context.Context,
		userID string,
		role models.Role,
		extra map[string]any,
		ttl time.Duration,
	) (string, error)

	// IssueRefreshToken mints a refresh token (refresh=true). A
	// non-positive ttl falls back to the configured refresh expiry.
	IssueRefreshToken(
		ctx context.Context,
		userID string,
		role models.Role,
		ttl time.Duration,
	) (string, error)

	// VerifyToken decodes with the expected role's key, cross-checks the
	// embedded role claim and consults the blacklist. Failures are
	// terminal per request, never retried.
	VerifyToken(ctx context.Context, tokenString string, role models.Role) (*models.TokenClaims, error)

	// VerifyTokenAnyRole probes student, academy, admin in that fixed
	// order and accepts the first success. All three keys are tried
	// before failing.
	VerifyTokenAnyRole(ctx context.Context, tokenString string) (*models.TokenClaims, error)

	// RevokeToken blacklists a token's jti until its natural expiry.
	// Idempotent: revoking an already-revoked token succeeds silently.
	// A blacklist write failure is returned to the caller, never
	// swallowed; a logout that did not blacklist is a degraded outcome
	// the caller must be able to see.
	RevokeToken(ctx context.Context, tokenString string, reason models.RevocationReason) (*models.TokenClaims, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type tokenService struct {
	keys          KeyRouter
	codec         TokenCodec
	blacklistRepo repositories.BlacklistRepository

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService wires the codec and key router. blacklistRepo may be
// nil, in which case verification skips the revocation check.
func NewTokenService(
	cfg *config.Config,
	keys KeyRouter,
	codec TokenCodec,
	blacklistRepo repositories.BlacklistRepository,
) TokenService {
	return &tokenService{
		keys:          keys,
		codec:         codec,
		blacklistRepo: blacklistRepo,
		accessTTL:     cfg.AccessTokenExpiry,
		refreshTTL:    cfg.RefreshTokenExpiry,
	}
}

func (s *tokenService) IssueAccessToken(
	ctx context.Context,
	userID string,
	role models.Role,
	extra map[string]any,
	ttl time.Duration,
) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	now := time.Now()
	claims := &models.TokenClaims{
		Subject:   userID,
		Role:      role,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Extra:     extra,
	}
	return s.codec.Encode(claims, s.keys.KeyFor(role))
}

func (s *tokenService) IssueRefreshToken(
	ctx context.Context,
	userID string,
	role models.Role,
	ttl time.Duration,
) (string, error) {
	if ttl <= 0 {
		ttl = s.refreshTTL
	}
	now := time.Now()
	claims := &models.TokenClaims{
		Subject:   userID,
		Role:      role,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		IsRefresh: true,
	}
	return s.codec.Encode(claims, s.keys.KeyFor(role))
}

func (s *tokenService) VerifyToken(ctx context.Context, tokenString string, role models.Role) (*models.TokenClaims, error) {
	claims, err := s.decodeForRole(tokenString, role)
	if err != nil {
		return nil, err
	}

	if s.blacklistRepo != nil {
		revoked, err := s.blacklistRepo.IsBlacklisted(ctx, claims.TokenID)
		if err != nil {
			// A store failure must not read as "not blacklisted".
			return nil, fmt.Errorf("%w: blacklist check: %v", utils.ErrStoreUnavailable, err)
		}
		if revoked {
			return nil, utils.ErrTokenRevoked
		}
	}

	return claims, nil
}

func (s *tokenService) VerifyTokenAnyRole(ctx context.Context, tokenString string) (*models.TokenClaims, error) {
	for _, role := range models.AllRoles {
		claims, err := s.VerifyToken(ctx, tokenString, role)
		if err == nil {
			return claims, nil
		}
		// Revocation and store failures are authoritative for the role
		// that actually decoded the token; keep probing only on decode
		// failure.
		if err != utils.ErrTokenDecode && err != utils.ErrRoleMismatch {
			return nil, err
		}
	}
	return nil, utils.ErrTokenDecode
}

func (s *tokenService) RevokeToken(ctx context.Context, tokenString string, reason models.RevocationReason) (*models.TokenClaims, error) {
	// Role-discovery decode without the blacklist check, so an already
	// revoked token can still be re-revoked (idempotence) and a store
	// outage cannot wedge the revoke path behind its own read.
	claims, err := s.decodeAnyRole(tokenString)
	if err != nil {
		return nil, err
	}

	if s.blacklistRepo == nil {
		return nil, fmt.Errorf("%w: no blacklist store configured", utils.ErrStoreUnavailable)
	}

	entry := &models.BlacklistedToken{
		ID:            uuid.New(),
		TokenID:       claims.TokenID,
		UserID:        claims.Subject,
		Role:          claims.Role,
		TokenType:     claims.TokenType(),
		ExpiresAt:     claims.ExpiresAt,
		BlacklistedAt: time.Now(),
		Reason:        reason,
		IsActive:      true,
	}
	if err := s.blacklistRepo.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("%w: blacklist write: %v", utils.ErrStoreUnavailable, err)
	}
	return claims, nil
}

func (s *tokenService) decodeForRole(tokenString string, role models.Role) (*models.TokenClaims, error) {
	claims, err := s.codec.Decode(tokenString, s.keys.KeyFor(role))
	if err != nil {
		return nil, utils.ErrTokenDecode
	}
	// The role claim must match the key that verified the signature;
	// this blocks cross-role replay even with a leaked-but-wrong key.
	if claims.Role != role {
		return nil, utils.ErrRoleMismatch
	}
	return claims, nil
}

func (s *tokenService) decodeAnyRole(tokenString string) (*models.TokenClaims, error) {
	for _, role := range models.AllRoles {
		claims, err := s.decodeForRole(tokenString, role)
		if err == nil {
			return claims, nil
		}
	}
	return nil, utils.ErrTokenDecode
}
