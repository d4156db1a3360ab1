package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// TokenCodec
// ---------------------------------------------------------------------

// TokenCodec encodes and decodes JWT claims with a given role key. It is
// stateless; the caller supplies the secret on every call.
//
// Decode fails closed: malformed payloads, bad signatures, a wrong
// algorithm and expired tokens all collapse to utils.ErrTokenDecode so
// nothing about *why* verification failed leaks to a caller.
type TokenCodec interface {
	Encode(claims *models.TokenClaims, secret []byte) (string, error)
	Decode(tokenString string, secret []byte) (*models.TokenClaims, error)
}

// reservedClaims are the registered names the codec manages itself;
// everything else round-trips through TokenClaims.Extra verbatim.
var reservedClaims = map[string]struct{}{
	"sub": {}, "type": {}, "jti": {}, "iat": {}, "exp": {}, "refresh": {},
}

type hmacTokenCodec struct{}

func NewTokenCodec() TokenCodec {
	return &hmacTokenCodec{}
}

func (c *hmacTokenCodec) Encode(claims *models.TokenClaims, secret []byte) (string, error) {
	mc := jwt.MapClaims{
		"sub":  claims.Subject,
		"type": claims.Role.String(),
		"jti":  claims.TokenID,
		"iat":  claims.IssuedAt.Unix(),
		"exp":  claims.ExpiresAt.Unix(),
	}
	if claims.IsRefresh {
		mc["refresh"] = true
	}
	for k, v := range claims.Extra {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		mc[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString(secret)
}

func (c *hmacTokenCodec) Decode(tokenString string, secret []byte) (*models.TokenClaims, error) {
	mc := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		mc,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		// Single opaque failure for every decode problem.
		return nil, utils.ErrTokenDecode
	}

	claims, err := claimsFromMap(mc)
	if err != nil {
		return nil, utils.ErrTokenDecode
	}
	return claims, nil
}

func claimsFromMap(mc jwt.MapClaims) (*models.TokenClaims, error) {
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, utils.ErrTokenDecode
	}

	roleStr, ok := mc["type"].(string)
	if !ok {
		return nil, utils.ErrTokenDecode
	}
	role, err := models.ParseRole(roleStr)
	if err != nil {
		return nil, utils.ErrTokenDecode
	}

	jti, ok := mc["jti"].(string)
	if !ok || jti == "" {
		return nil, utils.ErrTokenDecode
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, utils.ErrTokenDecode
	}

	var issuedAt time.Time
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		issuedAt = iat.Time
	}

	isRefresh := false
	if v, present := mc["refresh"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, utils.ErrTokenDecode
		}
		isRefresh = b
	}

	extra := make(map[string]any)
	for k, v := range mc {
		if _, reserved := reservedClaims[k]; reserved {
			continue
		}
		extra[k] = v
	}

	return &models.TokenClaims{
		Subject:   sub,
		Role:      role,
		TokenID:   jti,
		IssuedAt:  issuedAt,
		ExpiresAt: exp.Time,
		IsRefresh: isRefresh,
		Extra:     extra,
	}, nil
}
