package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/repositories"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// OTPService interface
// ---------------------------------------------------------------------

// VerifyResult describes the outcome of a verification attempt. On
// failure the accompanying error is one of the OTP sentinels;
// AttemptsRemaining is meaningful for mismatches.
type VerifyResult struct {
	Purpose           models.Purpose
	AttemptsRemaining int
}

// OTPService owns the one-time-passcode lifecycle: create (replacing any
// previous unused code for the same user/purpose pair), verify against
// the per-purpose policy, and periodic cleanup of expired rows.
type OTPService interface {
	// Create issues a new code for (userID, purpose). Any unused code
	// for the pair is invalidated in the same transaction; the last
	// Create wins. overrideExpiry, when non-nil, replaces the policy
	// expiry. The caller dispatches the returned record through the
	// notification channel; this service formats nothing.
	Create(ctx context.Context, userID string, purpose models.Purpose, overrideExpiry *time.Duration) (*models.OTP, error)

	// Verify spends an attempt against the active code for the pair.
	// An attempt is only spent on a live record: expired and exhausted
	// codes fail without touching the counter.
	Verify(ctx context.Context, userID, code string, purpose models.Purpose) (*VerifyResult, error)

	// VerifyAny locates the user's current active code regardless of
	// which purpose issued it, derives the purpose from the record, and
	// verifies with the same rules as Verify.
	VerifyAny(ctx context.Context, userID, code string) (*VerifyResult, error)

	// Discard removes a code that should never be redeemable, e.g. one
	// whose delivery failed.
	Discard(ctx context.Context, id uuid.UUID) error

	// Cleanup deletes expired codes and reports the count removed.
	Cleanup(ctx context.Context, now time.Time) (int64, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type otpService struct {
	otpRepo repositories.OTPRepository
}

func NewOTPService(otpRepo repositories.OTPRepository) OTPService {
	return &otpService{otpRepo: otpRepo}
}

func (s *otpService) Create(
	ctx context.Context,
	userID string,
	purpose models.Purpose,
	overrideExpiry *time.Duration,
) (*models.OTP, error) {
	policy, err := PolicyFor(purpose)
	if err != nil {
		return nil, err
	}

	code, err := utils.RandomCode(policy.CodeLength, policy.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	expiry := policy.Expiry
	if overrideExpiry != nil {
		expiry = *overrideExpiry
	}

	now := time.Now()
	otp := &models.OTP{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		IsUsed:    false,
		Attempts:  0,
		ExpiresAt: now.Add(expiry),
		CreatedAt: now,
	}

	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("%w: otp create: %v", utils.ErrStoreUnavailable, err)
	}
	return otp, nil
}

func (s *otpService) Verify(ctx context.Context, userID, code string, purpose models.Purpose) (*VerifyResult, error) {
	rec, err := s.otpRepo.GetActive(ctx, userID, purpose)
	if err != nil {
		return nil, fmt.Errorf("%w: otp lookup: %v", utils.ErrStoreUnavailable, err)
	}
	return s.check(ctx, rec, code)
}

func (s *otpService) VerifyAny(ctx context.Context, userID, code string) (*VerifyResult, error) {
	rec, err := s.otpRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: otp lookup: %v", utils.ErrStoreUnavailable, err)
	}
	return s.check(ctx, rec, code)
}

// check applies the verification state machine. The order matters:
// attempts are spent only on a live, non-expired, non-exhausted record,
// and each outcome (not found, expired, exhausted, mismatch, success) is
// mutually exclusive. No path both expires a code and consumes an
// attempt.
func (s *otpService) check(ctx context.Context, rec *models.OTP, code string) (*VerifyResult, error) {
	if rec == nil {
		return nil, utils.ErrOTPNotFound
	}

	policy, err := PolicyFor(rec.Purpose)
	if err != nil {
		return nil, err
	}
	result := &VerifyResult{Purpose: rec.Purpose}

	// An expired code costs nothing further.
	if rec.IsExpired(time.Now()) {
		return result, utils.ErrOTPExpired
	}

	// Already at the limit: no increment, it is already maxed.
	if rec.Attempts >= policy.MaxAttempts {
		return result, utils.ErrOTPAttemptsExhausted
	}

	// An attempt is being spent. The repository increments and bounds
	// the counter in one statement; losing the race to the last slot
	// reads as exhaustion, exactly as if we had fetched later.
	attempts, spent, err := s.otpRepo.SpendAttempt(ctx, rec.ID, policy.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("%w: otp attempt: %v", utils.ErrStoreUnavailable, err)
	}
	if !spent {
		return result, utils.ErrOTPAttemptsExhausted
	}
	result.AttemptsRemaining = policy.MaxAttempts - attempts

	if rec.Code != code {
		return result, utils.ErrOTPMismatch
	}

	if err := s.otpRepo.MarkUsed(ctx, rec.ID); err != nil {
		return nil, fmt.Errorf("%w: otp consume: %v", utils.ErrStoreUnavailable, err)
	}
	return result, nil
}

func (s *otpService) Discard(ctx context.Context, id uuid.UUID) error {
	return s.otpRepo.Delete(ctx, id)
}

func (s *otpService) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	return s.otpRepo.Cleanup(ctx, now)
}
