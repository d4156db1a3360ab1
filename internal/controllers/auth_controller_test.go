package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/dtos"
	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/services"
	"github.com/sayanlabs/auth-service/internal/utils"
)

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestLoginHandlerSuccess(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
			require.Equal(t, "sara@example.com", email)
			return &models.User{ID: "stu-1"}, studentPair(), nil
		},
	}
	c := NewAuthController(svc, &config.Config{})

	rr := postJSON(c.Login, "/auth/v1/login", `{"email":"sara@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dtos.TokenPairResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "access-token", resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, "student", resp.UserType)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
			return nil, nil, utils.ErrUserNotFound
		},
	}
	c := NewAuthController(svc, &config.Config{})

	rr := postJSON(c.Login, "/auth/v1/login", `{"email":"sara@example.com","password":"wrong password"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginHandlerValidation(t *testing.T) {
	c := NewAuthController(&stubAuthService{}, &config.Config{})

	for name, body := range map[string]string{
		"malformed json": `{"email":`,
		"missing email":  `{"password":"long enough"}`,
		"bad email":      `{"email":"not-an-email","password":"long enough"}`,
		"short password": `{"email":"sara@example.com","password":"short"}`,
	} {
		rr := postJSON(c.Login, "/auth/v1/login", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, name)
	}
}

func TestRefreshHandlerSuccess(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
			require.Equal(t, "old-refresh", refreshToken)
			return studentPair(), nil
		},
	}
	c := NewAuthController(svc, &config.Config{})

	rr := postJSON(c.RefreshToken, "/auth/v1/refresh_token", `{"refresh_token":"old-refresh"}`)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRefreshHandlerCollapsesTokenFailures(t *testing.T) {
	// Decode, role and revocation failures must be one opaque 401.
	for _, sentinel := range []error{utils.ErrTokenDecode, utils.ErrRoleMismatch, utils.ErrTokenRevoked} {
		svc := &stubAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
				return nil, sentinel
			},
		}
		c := NewAuthController(svc, &config.Config{})

		rr := postJSON(c.RefreshToken, "/auth/v1/refresh_token", `{"refresh_token":"whatever"}`)
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		var resp utils.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Equal(t, utils.ErrCodeUnauthorized, resp.Code)
		require.Equal(t, "Unauthorized", resp.Message)
	}
}

func TestLogoutHandler(t *testing.T) {
	svc := &stubAuthService{
		logoutFn: func(ctx context.Context, tokenString string) (bool, error) {
			require.Equal(t, "some-token", tokenString)
			return true, nil
		},
	}
	c := NewAuthController(svc, &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/auth/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	c.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp dtos.LogoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.TokensInvalidated)
}

func TestLogoutHandlerDegraded(t *testing.T) {
	svc := &stubAuthService{
		logoutFn: func(ctx context.Context, tokenString string) (bool, error) {
			return false, nil
		},
	}
	c := NewAuthController(svc, &config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/auth/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rr := httptest.NewRecorder()
	c.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp dtos.LogoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.TokensInvalidated)
}

func TestLogoutHandlerMissingToken(t *testing.T) {
	c := NewAuthController(&stubAuthService{}, &config.Config{})

	for _, header := range []string{"", "Bearer", "Basic abc123"} {
		req := httptest.NewRequest(http.MethodPost, "/auth/v1/logout", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		c.Logout(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
}
