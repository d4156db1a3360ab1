package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/sayanlabs/auth-service/internal/app"
	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/controllers"
	"github.com/sayanlabs/auth-service/internal/repositories"
	"github.com/sayanlabs/auth-service/internal/services"
	"github.com/sayanlabs/auth-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	//----------------------------------------------------------------------
	// Repositories
	//----------------------------------------------------------------------
	userRepo := repositories.NewUserRepository(application.DB)
	otpRepo := repositories.NewOTPRepository(application.DB)
	blacklistRepo := repositories.NewBlacklistRepository(application.DB)

	//----------------------------------------------------------------------
	// Services
	//----------------------------------------------------------------------
	keyRouter := services.NewKeyRouter(cfg)
	tokenCodec := services.NewTokenCodec()
	tokenService := services.NewTokenService(cfg, keyRouter, tokenCodec, blacklistRepo)
	otpService := services.NewOTPService(otpRepo)
	notificationService := services.NewNotificationService(cfg)
	authService := services.NewAuthService(userRepo, tokenService, otpService, notificationService, cfg)
	cleanupService := services.NewCleanupService(otpRepo, blacklistRepo)

	//----------------------------------------------------------------------
	// Controllers
	//----------------------------------------------------------------------
	authController := controllers.NewAuthController(authService, cfg)
	otpController := controllers.NewOTPController(authService)
	healthController := controllers.NewHealthController(application)

	//----------------------------------------------------------------------
	// Router & Endpoints
	//----------------------------------------------------------------------
	router := mux.NewRouter()

	// Health
	router.HandleFunc("/health", healthController.HealthCheckHandler).Methods("GET")

	// /auth/v1
	authRouter := router.PathPrefix("/auth").Subrouter()
	v1Router := authRouter.PathPrefix("/v1").Subrouter()

	v1Router.HandleFunc("/login", authController.Login).Methods("POST")
	v1Router.HandleFunc("/refresh_token", authController.RefreshToken).Methods("POST")
	v1Router.HandleFunc("/logout", authController.Logout).Methods("POST")

	v1Router.HandleFunc("/otp/request", otpController.RequestOTP).Methods("POST")
	v1Router.HandleFunc("/otp/verify", otpController.VerifyOTP).Methods("POST")

	//----------------------------------------------------------------------
	// Setup daily cleanup via cron
	//----------------------------------------------------------------------
	c := cron.New()

	// expired OTPs
	_, schErr1 := c.AddFunc("0 3 * * *", func() {
		if e := cleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled OTP/token cleanup failed")
		}
	})
	if schErr1 != nil {
		utils.Logger.WithError(schErr1).Fatal("Failed to schedule cleanup job")
	}

	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
