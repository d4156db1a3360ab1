package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/sayanlabs/auth-service/internal/models"
)

// OTPRepository persists issued verification codes. The storage layer
// enforces the two invariants the service relies on:
//
//   - Create's delete-then-insert runs in a single transaction, so a
//     concurrent Verify never observes a half-replaced code.
//   - SpendAttempt is a single bounded UPDATE ... RETURNING, so
//     parallel guesses serialize on the row and the counter can never
//     pass the limit.
type OTPRepository interface {
	// Create removes any unused code for (user_id, purpose) and inserts
	// the new row atomically. Last Create wins.
	Create(ctx context.Context, otp *models.OTP) error

	// GetActive returns the most recent unused code for the pair, or
	// nil when none exists.
	GetActive(ctx context.Context, userID string, purpose models.Purpose) (*models.OTP, error)

	// GetActiveByUser returns the most recent unused code for the user
	// across all purposes. Used by purpose-less verification, where the
	// purpose is derived from the record rather than the request.
	GetActiveByUser(ctx context.Context, userID string) (*models.OTP, error)

	// SpendAttempt bumps the attempts counter only while it is below
	// maxAttempts, returning the post-increment value and whether an
	// attempt was actually spent. The compare and increment happen in
	// one statement, so the counter can never exceed the limit no
	// matter how many verifications race on the row.
	SpendAttempt(ctx context.Context, id uuid.UUID, maxAttempts int) (attempts int, spent bool, err error)

	// MarkUsed terminally consumes the code.
	MarkUsed(ctx context.Context, id uuid.UUID) error

	// Delete removes a single code row. Used when delivery of a freshly
	// issued code fails and the record would otherwise be an orphan.
	Delete(ctx context.Context, id uuid.UUID) error

	// Cleanup deletes rows whose expiry is before now and returns the
	// number removed.
	Cleanup(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db DB
}

func NewOTPRepository(db DB) OTPRepository {
	return &otpRepository{db: db}
}

const otpColumns = `id, user_id, code, purpose, is_used, attempts, expires_at, created_at`

func (r *otpRepository) Create(ctx context.Context, otp *models.OTP) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	delQ := `DELETE FROM otps WHERE user_id = $1 AND purpose = $2 AND is_used = FALSE`
	if _, err := tx.Exec(ctx, delQ, otp.UserID, otp.Purpose); err != nil {
		return err
	}

	insQ := `
        INSERT INTO otps (id, user_id, code, purpose, is_used, attempts, expires_at, created_at)
        VALUES ($1, $2, $3, $4, FALSE, 0, $5, NOW())
    `
	if _, err := tx.Exec(ctx, insQ, otp.ID, otp.UserID, otp.Code, otp.Purpose, otp.ExpiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *otpRepository) GetActive(ctx context.Context, userID string, purpose models.Purpose) (*models.OTP, error) {
	q := `
        SELECT ` + otpColumns + `
        FROM otps
        WHERE user_id = $1 AND purpose = $2 AND is_used = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	return r.scanOne(r.db.QueryRow(ctx, q, userID, purpose))
}

func (r *otpRepository) GetActiveByUser(ctx context.Context, userID string) (*models.OTP, error) {
	q := `
        SELECT ` + otpColumns + `
        FROM otps
        WHERE user_id = $1 AND is_used = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	return r.scanOne(r.db.QueryRow(ctx, q, userID))
}

func (r *otpRepository) scanOne(row pgx.Row) (*models.OTP, error) {
	var rec models.OTP
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Code,
		&rec.Purpose,
		&rec.IsUsed,
		&rec.Attempts,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *otpRepository) SpendAttempt(ctx context.Context, id uuid.UUID, maxAttempts int) (int, bool, error) {
	q := `
        UPDATE otps
        SET attempts = attempts + 1
        WHERE id = $1 AND attempts < $2 AND is_used = FALSE
        RETURNING attempts
    `
	var attempts int
	err := r.db.QueryRow(ctx, q, id, maxAttempts).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Counter already at the limit (or code consumed); nothing spent.
			return maxAttempts, false, nil
		}
		return 0, false, err
	}
	return attempts, true, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE otps SET is_used = TRUE WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *otpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := `DELETE FROM otps WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *otpRepository) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	q := `DELETE FROM otps WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
