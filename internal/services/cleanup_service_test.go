package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sayanlabs/auth-service/internal/models"
)

func TestCleanupDailyRemovesExpiredRows(t *testing.T) {
	ctx := context.Background()
	otps := newMemOTPRepo()
	blacklist := newMemBlacklistRepo()
	svc := NewCleanupService(otps, blacklist)

	now := time.Now()
	require.NoError(t, otps.Create(ctx, &models.OTP{
		ID: uuid.New(), UserID: "u1", Code: "123456",
		Purpose: models.PurposeLogin, ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, otps.Create(ctx, &models.OTP{
		ID: uuid.New(), UserID: "u2", Code: "654321",
		Purpose: models.PurposeLogin, ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))
	require.NoError(t, blacklist.Add(ctx, &models.BlacklistedToken{
		ID: uuid.New(), TokenID: "dead", UserID: "u1", Role: models.RoleStudent,
		ExpiresAt: now.Add(-time.Hour), BlacklistedAt: now.Add(-2 * time.Hour),
		Reason: models.ReasonLogout, IsActive: true,
	}))
	require.NoError(t, blacklist.Add(ctx, &models.BlacklistedToken{
		ID: uuid.New(), TokenID: "live", UserID: "u2", Role: models.RoleStudent,
		ExpiresAt: now.Add(time.Hour), BlacklistedAt: now,
		Reason: models.ReasonLogout, IsActive: true,
	}))

	require.NoError(t, svc.CleanupDaily(ctx))

	require.Equal(t, 1, otps.count())
	stillRevoked, err := blacklist.IsBlacklisted(ctx, "live")
	require.NoError(t, err)
	require.True(t, stillRevoked)
	gone, err := blacklist.IsBlacklisted(ctx, "dead")
	require.NoError(t, err)
	require.False(t, gone)
}
