package dtos

// ----------------------
// OTP request / verify
// ----------------------

// RequestOTPRequest asks for a code to be issued and dispatched. Exactly
// one of Email/Phone must be set; that cross-field rule is a business
// check in the controller, not a schema tag.
type RequestOTPRequest struct {
	Email            string `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string `json:"phone,omitempty" validate:"omitempty,e164"`
	Purpose          string `json:"purpose" validate:"required"`
	ExpiresInMinutes int    `json:"expires_in_minutes,omitempty" validate:"omitempty,gt=0,lte=120"`
}

type RequestOTPResponse struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	Purpose           string `json:"purpose"`
	ExpiresIn         int    `json:"expires_in"` // seconds
	ExpiresAt         string `json:"expires_at"` // RFC 3339
	AttemptsRemaining int    `json:"attempts_remaining"`
	SentTo            string `json:"sent_to"` // masked destination
}

// VerifyOTPRequest redeems a code. Purpose is intentionally absent: the
// service locates the user's current active code and derives the
// purpose from the stored record.
type VerifyOTPRequest struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,e164"`
	OTP   string `json:"otp" validate:"required,min=4,max=8"`
}

type VerifyOTPErrorResponse struct {
	Status            string `json:"status"`
	ErrorType         string `json:"error_type"`
	AttemptsRemaining int    `json:"attempts_remaining,omitempty"`
}
