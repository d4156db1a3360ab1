package services

import (
	"context"
	"errors"
	"time"

	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/repositories"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// AuthService interface
// ---------------------------------------------------------------------

// TokenPair is a freshly minted access + refresh credential set.
type TokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	Role         models.Role `json:"user_type"`
}

// OTPIssue describes a code that was created and dispatched.
type OTPIssue struct {
	Purpose           models.Purpose
	ExpiresAt         time.Time
	ExpiresIn         time.Duration
	AttemptsRemaining int
	SentTo            Destination
}

// AuthService orchestrates the credential flows: password login, OTP
// request/verify, refresh rotation and logout. It consults the user
// directory, delegates token work to TokenService and code work to
// OTPService, and dispatches codes through the notification channel.
type AuthService interface {
	// Login authenticates email+password and mints a token pair.
	Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error)

	// RequestOTP locates the user behind the contact, issues a code for
	// the purpose and dispatches it. A delivery failure removes the
	// orphaned code so it can never be redeemed.
	RequestOTP(ctx context.Context, contact string, purpose models.Purpose, overrideExpiry *time.Duration) (*OTPIssue, error)

	// VerifyOTP verifies a code against the user's current active OTP
	// (whatever purpose issued it) and mints a token pair on success.
	// On failure the returned error is one of the OTP sentinels and the
	// VerifyResult carries attempts remaining.
	VerifyOTP(ctx context.Context, contact, code string) (*models.User, *TokenPair, *VerifyResult, error)

	// Refresh rotates a refresh token: verifies it, blacklists its jti
	// and mints a new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout blacklists the presented token. The boolean reports
	// whether invalidation actually happened; a transient store failure
	// yields (false, nil) so callers can respond degraded-but-accepted
	// instead of pretending the blacklist write succeeded.
	Logout(ctx context.Context, tokenString string) (bool, error)
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type authService struct {
	userRepo     repositories.UserRepository
	tokenService TokenService
	otpService   OTPService
	notifier     NotificationService
	cfg          *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenService TokenService,
	otpService OTPService,
	notifier NotificationService,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenService: tokenService,
		otpService:   otpService,
		notifier:     notifier,
		cfg:          cfg,
	}
}

// lookupByContact resolves an email or phone to a directory row. The
// caller decides whether "no user" is an error worth distinguishing.
func (s *authService) lookupByContact(ctx context.Context, contact string) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if isEmailContact(contact) {
		user, err = s.userRepo.GetByEmail(ctx, contact)
	} else {
		user, err = s.userRepo.GetByPhone(ctx, contact)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

func isEmailContact(contact string) bool {
	for i := 0; i < len(contact); i++ {
		if contact[i] == '@' {
			return true
		}
	}
	return false
}

func (s *authService) mintPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	extra := map[string]any{"email": user.Email}
	access, err := s.tokenService.IssueAccessToken(ctx, user.ID, user.Role, extra, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokenService.IssueRefreshToken(ctx, user.ID, user.Role, 0)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		Role:         user.Role,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	// Identical failure for unknown email and wrong password.
	if user == nil || !utils.CheckPasswordHash(password, user.HashedPassword) {
		return nil, nil, utils.ErrUserNotFound
	}
	if !user.CanAuthenticate() {
		return nil, nil, utils.ErrAccountInactive
	}

	pair, err := s.mintPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) RequestOTP(
	ctx context.Context,
	contact string,
	purpose models.Purpose,
	overrideExpiry *time.Duration,
) (*OTPIssue, error) {
	user, err := s.lookupByContact(ctx, contact)
	if err != nil {
		return nil, err
	}

	otp, err := s.otpService.Create(ctx, user.ID, purpose, overrideExpiry)
	if err != nil {
		return nil, err
	}

	dest := Destination{Kind: ChannelSMS, Address: contact}
	if isEmailContact(contact) {
		dest.Kind = ChannelEmail
	}

	if err := s.notifier.SendOTP(ctx, dest, otp.Code, purpose, user.DisplayName()); err != nil {
		// The code was never delivered; leaving it behind would let it
		// be redeemed by someone who never received it on a retry path.
		if delErr := s.otpService.Discard(ctx, otp.ID); delErr != nil {
			utils.Logger.WithError(delErr).Error("failed to remove undelivered OTP")
		}
		return nil, err
	}

	policy, err := PolicyFor(purpose)
	if err != nil {
		return nil, err
	}

	return &OTPIssue{
		Purpose:           purpose,
		ExpiresAt:         otp.ExpiresAt,
		ExpiresIn:         time.Until(otp.ExpiresAt),
		AttemptsRemaining: policy.MaxAttempts,
		SentTo:            dest,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, contact, code string) (*models.User, *TokenPair, *VerifyResult, error) {
	user, err := s.lookupByContact(ctx, contact)
	if err != nil {
		return nil, nil, nil, err
	}

	result, err := s.otpService.VerifyAny(ctx, user.ID, code)
	if err != nil {
		return nil, nil, result, err
	}

	pair, err := s.mintPair(ctx, user)
	if err != nil {
		return nil, nil, result, err
	}
	return user, pair, result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.VerifyTokenAnyRole(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefresh {
		return nil, utils.ErrTokenDecode
	}

	user, err := s.userRepo.GetByID(ctx, claims.Role, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CanAuthenticate() {
		return nil, utils.ErrUserNotFound
	}

	// Rotation: the old refresh token dies with the new issuance.
	if _, err := s.tokenService.RevokeToken(ctx, refreshToken, models.ReasonSecurity); err != nil {
		return nil, err
	}

	return s.mintPair(ctx, user)
}

func (s *authService) Logout(ctx context.Context, tokenString string) (bool, error) {
	_, err := s.tokenService.RevokeToken(ctx, tokenString, models.ReasonLogout)
	if err != nil {
		if errors.Is(err, utils.ErrStoreUnavailable) {
			// Best-effort fallback: accepted, but the token was NOT
			// blacklisted. The flag must make that visible.
			utils.Logger.WithError(err).Error("logout could not blacklist token")
			return false, nil
		}
		return false, err
	}
	return true, nil
}
