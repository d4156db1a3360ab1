package services

import (
	"github.com/sayanlabs/auth-service/internal/config"
	"github.com/sayanlabs/auth-service/internal/models"
	"github.com/sayanlabs/auth-service/internal/utils"
)

// ---------------------------------------------------------------------
// KeyRouter
// ---------------------------------------------------------------------

// KeyRouter resolves the signing/verification secret for a role. Every
// role owns a distinct key, so tokens live in per-role namespaces: a
// student token can never verify under the academy key even if the
// signature bytes happen to parse.
type KeyRouter interface {
	KeyFor(role models.Role) []byte
}

type keyRouter struct {
	studentKey []byte
	academyKey []byte
	adminKey   []byte
	defaultKey []byte
}

func NewKeyRouter(cfg *config.Config) KeyRouter {
	return &keyRouter{
		studentKey: cfg.StudentSecretKey,
		academyKey: cfg.AcademySecretKey,
		adminKey:   cfg.AdminSecretKey,
		defaultKey: cfg.DefaultSecretKey,
	}
}

// KeyFor is a pure lookup. An unrecognized role falls back to the
// default key, which is distinct from all three role keys; the fallback
// is deliberate and logged, never a crash.
func (k *keyRouter) KeyFor(role models.Role) []byte {
	switch role {
	case models.RoleStudent:
		return k.studentKey
	case models.RoleAcademy:
		return k.academyKey
	case models.RoleAdmin:
		return k.adminKey
	default:
		utils.Logger.Warnf("KeyRouter: unrecognized role %q, using default key", role)
		return k.defaultKey
	}
}
