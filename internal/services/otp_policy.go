package services

import (
	"time"

	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// OTPPolicyTable
// ---------------------------------------------------------------------

// OTPPolicy is the per-purpose tuple of code shape and abuse limits.
type OTPPolicy struct {
	CodeLength  int
	Alphabet    string
	Expiry      time.Duration
	MaxAttempts int
}

// otpPolicies encodes real risk trade-offs per purpose: short windows
// and tight attempt limits on the operations that move money or log a
// user in, longer windows where the user is working through email, and
// 8-character codes without O/I/0/1 for the two purposes a human is
// likeliest to transcribe by hand.
var otpPolicies = map[models.Purpose]OTPPolicy{
	models.PurposeLogin:                   {6, utils.DigitsAlphabet, 5 * time.Minute, 3},
	models.PurposePasswordReset:           {6, utils.DigitsAlphabet, 30 * time.Minute, 5},
	models.PurposeEmailVerification:       {6, utils.DigitsAlphabet, 15 * time.Minute, 3},
	models.PurposePhoneVerification:       {6, utils.DigitsAlphabet, 10 * time.Minute, 3},
	models.PurposeTransactionConfirmation: {6, utils.DigitsAlphabet, 5 * time.Minute, 3},
	models.PurposeAccountActivation:       {6, utils.DigitsAlphabet, 60 * time.Minute, 5},
	models.PurposeChangePassword:          {6, utils.DigitsAlphabet, 15 * time.Minute, 3},
	models.PurposeEmailUpdate:             {6, utils.DigitsAlphabet, 20 * time.Minute, 3},
	models.PurposePhoneUpdate:             {6, utils.DigitsAlphabet, 10 * time.Minute, 3},
	models.PurposePaymentConfirmation:     {8, utils.AlphanumericAlphabet, 3 * time.Minute, 2},
	models.PurposeAccountDeletion:         {8, utils.AlphanumericAlphabet, 60 * time.Minute, 5},
	models.PurposeTwoFactorAuth:           {6, utils.DigitsAlphabet, 5 * time.Minute, 3},
	models.PurposeSecurityVerification:    {6, utils.DigitsAlphabet, 10 * time.Minute, 3},
}

// PolicyFor returns the fixed policy for a purpose.
func PolicyFor(purpose models.Purpose) (OTPPolicy, error) {
	p, ok := otpPolicies[purpose]
	if !ok {
		return OTPPolicy{}, utils.ErrUnknownPurpose
	}
	return p, nil
}
