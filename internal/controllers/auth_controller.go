package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/dtos"
	"github.com/sayanlabs/auth-service/internal/services"
	"github.com/sayanlabs/auth-service/internal/utils"
)

type AuthController struct {
	authService services.AuthService
	cfg         *config.Config
}

func NewAuthController(authService services.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{authService: authService, cfg: cfg}
}

var authValidate = validator.New()

func pairResponse(pair *services.TokenPair) dtos.TokenPairResponse {
	return dtos.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		UserType:     pair.Role.String(),
	}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	_, pair, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUserNotFound):
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password", nil)
		case errors.Is(err, utils.ErrAccountInactive):
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Account is inactive", nil)
		case errors.Is(err, utils.ErrStoreUnavailable):
			utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeStoreUnavailable, "Service temporarily unavailable", nil, err)
		default:
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Login failed", nil, err)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pairResponse(pair))
}

func (c *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dtos.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err)
		return
	}
	if err := authValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		return
	}

	pair, err := c.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrStoreUnavailable) {
			utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeStoreUnavailable, "Service temporarily unavailable", nil, err)
			return
		}
		respondUnauthorized(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pairResponse(pair))
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		respondUnauthorized(w, nil)
		return
	}

	invalidated, err := c.authService.Logout(r.Context(), token)
	if err != nil {
		respondUnauthorized(w, err)
		return
	}

	// invalidated=false means the blacklist write failed transiently;
	// the response must not claim the token died.
	utils.RespondWithJSON(w, http.StatusOK, dtos.LogoutResponse{TokensInvalidated: invalidated})
}
