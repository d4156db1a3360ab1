package controllers

import (
	"context"
	"time"

	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/services"
)

// stubAuthService lets each test script the service outcome without a
// database or signing keys behind it.
type stubAuthService struct {
	loginFn      func(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	requestOTPFn func(ctx context.Context, contact string, purpose models.Purpose, overrideExpiry *time.Duration) (*services.OTPIssue, error)
	verifyOTPFn  func(ctx context.Context, contact, code string) (*models.User, *services.TokenPair, *services.VerifyResult, error)
	refreshFn    func(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	logoutFn     func(ctx context.Context, tokenString string) (bool, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) RequestOTP(ctx context.Context, contact string, purpose models.Purpose, overrideExpiry *time.Duration) (*services.OTPIssue, error) {
	return s.requestOTPFn(ctx, contact, purpose, overrideExpiry)
}

func (s *stubAuthService) VerifyOTP(ctx context.Context, contact, code string) (*models.User, *services.TokenPair, *services.VerifyResult, error) {
	return s.verifyOTPFn(ctx, contact, code)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenString string) (bool, error) {
	return s.logoutFn(ctx, tokenString)
}

func studentPair() *services.TokenPair {
	return &services.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "bearer",
		Role:         models.RoleStudent,
	}
}
