package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/sayanlabs/auth-service/internal/repositories"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// One retry on transient network errors (EOF, closed connection) with a
// small back-off. Cleanup is advisory: correctness is enforced by
// expiry comparison at read time, so a skipped run costs nothing but
// table bloat.
const cleanupRetryDelay = 3 * time.Second

// CleanupService purges expired OTP rows and redundant blacklist
// entries each night.
type CleanupService interface {
	CleanupDaily(ctx context.Context) error
}

type cleanupService struct {
	otpRepo       repositories.OTPRepository
	blacklistRepo repositories.BlacklistRepository
}

func NewCleanupService(
	otpRepo repositories.OTPRepository,
	blacklistRepo repositories.BlacklistRepository,
) CleanupService {
	return &cleanupService{
		otpRepo:       otpRepo,
		blacklistRepo: blacklistRepo,
	}
}

// runWithRetry executes op(ctx) and, if it returns a transient network
// error (EOF, pgconn safe-to-retry, or the common closed-connection
// message), waits a moment then retries once.
func (s *cleanupService) runWithRetry(
	ctx context.Context,
	op func(context.Context) (int64, error),
) (int64, error) {
	n, err := op(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("cleanup hit transient DB error; retrying once")
			time.Sleep(cleanupRetryDelay)
			return op(ctx)
		}
		return n, err
	}
	return n, nil
}

// CleanupDaily removes expired OTPs and spent blacklist entries. A
// blacklist row past its token's original expiry adds nothing; the
// token is already rejected by exp alone.
func (s *cleanupService) CleanupDaily(ctx context.Context) error {
	logger := utils.Logger

	removedOTPs, err := s.runWithRetry(ctx, func(ctx context.Context) (int64, error) {
		return s.otpRepo.Cleanup(ctx, time.Now())
	})
	if err != nil {
		logger.WithError(err).Error("Failed to cleanup expired otps")
		return err
	}

	removedTokens, err := s.runWithRetry(ctx, func(ctx context.Context) (int64, error) {
		return s.blacklistRepo.Cleanup(ctx, time.Now())
	})
	if err != nil {
		logger.WithError(err).Error("Failed to cleanup expired blacklisted_tokens")
		return err
	}

	logger.Infof("Daily cleanup completed: %d otps, %d blacklist entries removed.", removedOTPs, removedTokens)
	return nil
}
