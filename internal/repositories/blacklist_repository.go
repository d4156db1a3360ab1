package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sayanlabs/auth-service/internal/models"
)

// BlacklistRepository is the durable set of revoked token IDs. A jti is
// considered blacklisted only while its entry is active AND the token's
// original expiry has not passed; after that the token is already dead
// by expiry and the row is only kept until cleanup.
type BlacklistRepository interface {
	// Add upserts an entry keyed by token_id. Re-revoking the same jti
	// succeeds and updates reason/blacklisted_at (last write wins).
	Add(ctx context.Context, entry *models.BlacklistedToken) error

	// IsBlacklisted reports whether an active, not-yet-expired entry
	// exists for the jti. Store errors propagate; they are never read
	// as "not blacklisted".
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)

	// Cleanup deletes entries whose original expiry is before now and
	// returns how many rows were removed.
	Cleanup(ctx context.Context, now time.Time) (int64, error)
}

type blacklistRepository struct {
	db DB
}

func NewBlacklistRepository(db DB) BlacklistRepository {
	return &blacklistRepository{db: db}
}

func (r *blacklistRepository) Add(ctx context.Context, entry *models.BlacklistedToken) error {
	q := `
        INSERT INTO blacklisted_tokens
            (id, token_id, user_id, user_type, token_type, expires_at, blacklisted_at, reason, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
        ON CONFLICT (token_id) DO UPDATE
        SET reason        = EXCLUDED.reason,
            blacklisted_at = EXCLUDED.blacklisted_at,
            is_active     = TRUE
    `
	id := entry.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	blacklistedAt := entry.BlacklistedAt
	if blacklistedAt.IsZero() {
		blacklistedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, q,
		id,
		entry.TokenID,
		entry.UserID,
		entry.Role,
		entry.TokenType,
		entry.ExpiresAt,
		blacklistedAt,
		entry.Reason,
	)
	return err
}

func (r *blacklistRepository) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	q := `
        SELECT EXISTS (
            SELECT 1
            FROM blacklisted_tokens
            WHERE token_id = $1
              AND is_active = TRUE
              AND expires_at > NOW()
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, q, tokenID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *blacklistRepository) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	q := `DELETE FROM blacklisted_tokens WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
