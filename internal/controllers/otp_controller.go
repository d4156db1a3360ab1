package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sayanlabs/auth-service/internal/dtos"
	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/services"
	"github.com/sayanlabs/auth-service/internal/utils"
)

type OTPController struct {
	authService services.AuthService
}

func NewOTPController(authService services.AuthService) *OTPController {
	return &OTPController{authService: authService}
}

var otpValidate = validator.New()

// exactlyOneContact enforces the email-xor-phone rule and returns the
// chosen contact plus a masking function for the response.
func exactlyOneContact(email, phone string) (contact string, mask func(string) string, ok bool) {
	switch {
	case email != "" && phone == "":
		return email, utils.MaskEmail, true
	case phone != "" && email == "":
		return phone, utils.MaskPhone, true
	}
	return "", nil, false
}

func (c *OTPController) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req dtos.RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := otpValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	contact, mask, ok := exactlyOneContact(req.Email, req.Phone)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Exactly one of email or phone is required", nil)
		return
	}

	purpose, err := models.ParsePurpose(req.Purpose)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Unknown purpose", nil, err)
		return
	}

	var overrideExpiry *time.Duration
	if req.ExpiresInMinutes > 0 {
		d := time.Duration(req.ExpiresInMinutes) * time.Minute
		overrideExpiry = &d
	}

	issue, err := c.authService.RequestOTP(r.Context(), contact, purpose, overrideExpiry)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUserNotFound):
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "No account found for this contact", nil)
		case errors.Is(err, utils.ErrExternalServiceFailure):
			utils.RespondErrorWithCode(w, http.StatusBadGateway, utils.ErrCodeExternalServiceFailure, "Failed to deliver the code", nil, err)
		case errors.Is(err, utils.ErrStoreUnavailable):
			utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeStoreUnavailable, "Service temporarily unavailable", nil, err)
		default:
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to issue code", nil, err)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.RequestOTPResponse{
		Status:            "success",
		Message:           "Verification code sent",
		Purpose:           issue.Purpose.String(),
		ExpiresIn:         int(issue.ExpiresIn.Seconds()),
		ExpiresAt:         issue.ExpiresAt.UTC().Format(time.RFC3339),
		AttemptsRemaining: issue.AttemptsRemaining,
		SentTo:            mask(contact),
	})
}

func (c *OTPController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req dtos.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := otpValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	contact, _, ok := exactlyOneContact(req.Email, req.Phone)
	if !ok {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Exactly one of email or phone is required", nil)
		return
	}

	_, pair, result, err := c.authService.VerifyOTP(r.Context(), contact, req.OTP)
	if err != nil {
		if errorType, isOTPErr := otpErrorType(err); isOTPErr {
			resp := dtos.VerifyOTPErrorResponse{Status: "error", ErrorType: errorType}
			if errors.Is(err, utils.ErrOTPMismatch) && result != nil {
				resp.AttemptsRemaining = result.AttemptsRemaining
			}
			utils.RespondWithJSON(w, http.StatusBadRequest, resp)
			return
		}
		switch {
		case errors.Is(err, utils.ErrUserNotFound):
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "No account found for this contact", nil)
		case errors.Is(err, utils.ErrStoreUnavailable):
			utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeStoreUnavailable, "Service temporarily unavailable", nil, err)
		default:
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Verification failed", nil, err)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pairResponse(pair))
}
