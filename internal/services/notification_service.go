package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// NotificationService interface
// ---------------------------------------------------------------------

// ChannelKind says how a destination should be reached.
type ChannelKind string

const (
	ChannelEmail ChannelKind = "email"
	ChannelSMS   ChannelKind = "sms"
)

// Destination is an addressable recipient for an OTP delivery.
type Destination struct {
	Kind    ChannelKind
	Address string
}

// NotificationService is the outbound channel for one-time codes. It
// receives the code, the purpose and a display name and reports
// delivery success; the credential core never writes user-facing copy
// beyond this substitution.
type NotificationService interface {
	SendOTP(ctx context.Context, dest Destination, code string, purpose models.Purpose, displayName string) error
}

// ---------------------------------------------------------------------
// Implementation (SendGrid + Twilio)
// ---------------------------------------------------------------------

type notificationService struct {
	sendgridClient *sendgrid.Client
	twilioClient   *twilio.RestClient

	fromEmail     string
	fromEmailName string
	fromPhone     string
	sandboxMode   bool
}

func NewNotificationService(cfg *config.Config) NotificationService {
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &notificationService{
		sendgridClient: sgClient,
		twilioClient:   twClient,
		fromEmail:      cfg.SendGridFromEmail,
		fromEmailName:  cfg.SendGridFromName,
		fromPhone:      cfg.TwilioFromPhone,
		sandboxMode:    cfg.NotificationSandbox,
	}
}

func (s *notificationService) SendOTP(
	ctx context.Context,
	dest Destination,
	code string,
	purpose models.Purpose,
	displayName string,
) error {
	if s.sandboxMode {
		// Dev/test mode: log instead of dispatching.
		utils.Logger.Infof("sandbox OTP delivery: %s code for %s to %s", purpose, dest.Kind, dest.Address)
		return nil
	}

	switch dest.Kind {
	case ChannelEmail:
		return s.sendEmail(ctx, dest.Address, code, purpose, displayName)
	case ChannelSMS:
		return s.sendSMS(ctx, dest.Address, code, purpose)
	default:
		return fmt.Errorf("unsupported notification channel %q", dest.Kind)
	}
}

// purposeSubject gives each purpose a human heading for the email.
func purposeSubject(purpose models.Purpose) string {
	switch purpose {
	case models.PurposeLogin, models.PurposeTwoFactorAuth:
		return "Your login code"
	case models.PurposePasswordReset, models.PurposeChangePassword:
		return "Reset your password"
	case models.PurposeEmailVerification, models.PurposeEmailUpdate:
		return "Verify your email address"
	case models.PurposePhoneVerification, models.PurposePhoneUpdate:
		return "Verify your phone number"
	case models.PurposePaymentConfirmation, models.PurposeTransactionConfirmation:
		return "Confirm your payment"
	case models.PurposeAccountActivation:
		return "Activate your account"
	case models.PurposeAccountDeletion:
		return "Confirm account deletion"
	default:
		return "Your verification code"
	}
}

func (s *notificationService) sendEmail(
	ctx context.Context,
	address, code string,
	purpose models.Purpose,
	displayName string,
) error {
	subject := purposeSubject(purpose)

	greeting := "Please use the following code to continue."
	if displayName != "" {
		greeting = fmt.Sprintf("Hi %s, please use the following code to continue.", displayName)
	}

	from := mail.NewEmail(s.fromEmailName, s.fromEmail)
	to := mail.NewEmail(displayName, address)
	html := fmt.Sprintf(otpEmailHTML, subject, greeting, code, time.Now().Year())
	plain := fmt.Sprintf("%s\n\nYour code: %s", greeting, code)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := s.sendgridClient.SendWithContext(ctx, message)
	if err != nil {
		utils.Logger.WithError(err).Error("SendGrid OTP email send failed")
		return utils.ErrExternalServiceFailure
	}
	if resp.StatusCode >= 400 {
		utils.Logger.Errorf("SendGrid OTP email rejected with status %d", resp.StatusCode)
		return utils.ErrExternalServiceFailure
	}
	return nil
}

func (s *notificationService) sendSMS(ctx context.Context, phone, code string, purpose models.Purpose) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.fromPhone)
	params.SetBody(fmt.Sprintf("%s: %s", purposeSubject(purpose), code))

	if _, err := s.twilioClient.Api.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).Error("Twilio OTP SMS send failed")
		return utils.ErrExternalServiceFailure
	}
	return nil
}
