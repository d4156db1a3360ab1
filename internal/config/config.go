package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sayanlabs/auth-service/internal/utils"
)

// Config holds all application configuration, including the per-role
// signing secrets and delivery-channel credentials.
type Config struct {
	AppName string
	AppPort string
	AppUrl  string
	DBUrl   string

	// Per-role HMAC signing keys plus the deliberate fallback for
	// unrecognized roles. All four must be distinct.
	StudentSecretKey []byte
	AcademySecretKey []byte
	AdminSecretKey   []byte
	DefaultSecretKey []byte

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioFromPhone     string
	SendGridAPIKey      string
	SendGridFromEmail   string
	SendGridFromName    string
	NotificationSandbox bool
}

// Defaults for time-based configuration.
const (
	DefaultAccessTokenExpiryMinutes = 30
	DefaultRefreshTokenExpiryDays   = 7
)

// AppName may be overridden with ldflags at build time.
var AppName = "auth-service"

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// LoadConfig reads the environment and returns a *Config, dying loudly
// on anything required but absent.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := mustEnv("APP_PORT")
	appUrl := mustEnv("APP_URL")
	dbUrl := mustEnv("DB_URL")

	studentKey := mustEnv("STUDENT_SECRET_KEY")
	academyKey := mustEnv("ACADEMY_SECRET_KEY")
	adminKey := mustEnv("ADMIN_SECRET_KEY")
	defaultKey := mustEnv("SECRET_KEY")

	if studentKey == academyKey || studentKey == adminKey || academyKey == adminKey ||
		defaultKey == studentKey || defaultKey == academyKey || defaultKey == adminKey {
		utils.Logger.Fatal("role signing keys must be pairwise distinct")
	}

	accessExpiry := time.Duration(DefaultAccessTokenExpiryMinutes) * time.Minute
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			utils.Logger.Fatalf("Invalid ACCESS_TOKEN_EXPIRE_MINUTES %q", v)
		}
		accessExpiry = time.Duration(minutes) * time.Minute
	}

	refreshExpiry := time.Duration(DefaultRefreshTokenExpiryDays) * 24 * time.Hour
	if v := os.Getenv("REFRESH_TOKEN_EXPIRE_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			utils.Logger.Fatalf("Invalid REFRESH_TOKEN_EXPIRE_DAYS %q", v)
		}
		refreshExpiry = time.Duration(days) * 24 * time.Hour
	}

	sandbox, _ := strconv.ParseBool(os.Getenv("NOTIFICATION_SANDBOX"))

	cfg := &Config{
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		DBUrl:               dbUrl,
		StudentSecretKey:    []byte(studentKey),
		AcademySecretKey:    []byte(academyKey),
		AdminSecretKey:      []byte(adminKey),
		DefaultSecretKey:    []byte(defaultKey),
		AccessTokenExpiry:   accessExpiry,
		RefreshTokenExpiry:  refreshExpiry,
		NotificationSandbox: sandbox,
		SendGridFromEmail:   envOr("SENDGRID_FROM_EMAIL", "no-reply@sayan.app"),
		SendGridFromName:    envOr("SENDGRID_FROM_NAME", "Sayan"),
	}

	// Delivery credentials are only required outside sandbox mode.
	if sandbox {
		cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
		cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
		cfg.TwilioFromPhone = os.Getenv("TWILIO_FROM_PHONE")
		cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	} else {
		cfg.TwilioAccountSID = mustEnv("TWILIO_ACCOUNT_SID")
		cfg.TwilioAuthToken = mustEnv("TWILIO_AUTH_TOKEN")
		cfg.TwilioFromPhone = mustEnv("TWILIO_FROM_PHONE")
		cfg.SendGridAPIKey = mustEnv("SENDGRID_API_KEY")
	}

	return cfg
}
