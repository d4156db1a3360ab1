package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sayanlabs/auth-service/internal/utils"
)

// Purpose is the business reason an OTP was issued. It selects the
// policy (length, alphabet, expiry, attempt limit) and is immutable
// once the code exists.
type Purpose string

const (
	PurposeLogin                   Purpose = "login"
	PurposePasswordReset           Purpose = "password_reset"
	PurposeEmailVerification       Purpose = "email_verification"
	PurposePhoneVerification       Purpose = "phone_verification"
	PurposeTransactionConfirmation Purpose = "transaction_confirmation"
	PurposeAccountActivation       Purpose = "account_activation"
	PurposeChangePassword          Purpose = "change_password"
	PurposeEmailUpdate             Purpose = "email_update"
	PurposePhoneUpdate             Purpose = "phone_update"
	PurposePaymentConfirmation     Purpose = "payment_confirmation"
	PurposeAccountDeletion         Purpose = "account_deletion"
	PurposeTwoFactorAuth           Purpose = "two_factor_auth"
	PurposeSecurityVerification    Purpose = "security_verification"
)

// AllPurposes lists every valid purpose.
var AllPurposes = []Purpose{
	PurposeLogin,
	PurposePasswordReset,
	PurposeEmailVerification,
	PurposePhoneVerification,
	PurposeTransactionConfirmation,
	PurposeAccountActivation,
	PurposeChangePassword,
	PurposeEmailUpdate,
	PurposePhoneUpdate,
	PurposePaymentConfirmation,
	PurposeAccountDeletion,
	PurposeTwoFactorAuth,
	PurposeSecurityVerification,
}

// ParsePurpose rejects unknown purposes at the boundary.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range AllPurposes {
		if Purpose(s) == p {
			return p, nil
		}
	}
	return "", utils.ErrUnknownPurpose
}

func (p Purpose) String() string {
	return string(p)
}

// OTP is one issued verification code. At most one unused, unexpired row
// exists per (UserID, Purpose); issuing a new code deletes the previous
// unused one first. Attempts only ever increases.
type OTP struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	Purpose   Purpose   `json:"purpose"`
	IsUsed    bool      `json:"is_used"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the code can no longer be redeemed due to age.
func (o *OTP) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
