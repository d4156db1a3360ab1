package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/sayanlabs/auth-service/internal/models"
)

// UserRepository is the read-only user directory. Lookups by email and
// phone probe the three role tables in the same fixed order as token
// role discovery: student, academy, admin.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByID(ctx context.Context, role models.Role, id string) (*models.User, error)
}

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// roleTable maps a role to its backing table. Students carry a status
// column; academy and admin rows carry is_active instead, so the two
// shapes are normalized in the scan.
func roleTable(role models.Role) (table string, hasStatus bool) {
	switch role {
	case models.RoleStudent:
		return "students", true
	case models.RoleAcademy:
		return "academy_users", false
	default:
		return "admins", false
	}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.lookup(ctx, "email", email)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.lookup(ctx, "phone", phone)
}

func (r *userRepository) GetByID(ctx context.Context, role models.Role, id string) (*models.User, error) {
	u, err := r.queryRole(ctx, role, "id", id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return u, nil
}

func (r *userRepository) lookup(ctx context.Context, column, value string) (*models.User, error) {
	for _, role := range models.AllRoles {
		u, err := r.queryRole(ctx, role, column, value)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) queryRole(ctx context.Context, role models.Role, column, value string) (*models.User, error) {
	table, hasStatus := roleTable(role)

	var q string
	if hasStatus {
		q = fmt.Sprintf(`
            SELECT id, email, phone, first_name, last_name, hashed_password, status, created_at
            FROM %s WHERE %s = $1`, table, column)
	} else {
		q = fmt.Sprintf(`
            SELECT id, email, phone, first_name, last_name, hashed_password, is_active, created_at
            FROM %s WHERE %s = $1`, table, column)
	}

	row := r.db.QueryRow(ctx, q, value)

	u := models.User{Role: role}
	var err error
	if hasStatus {
		err = row.Scan(&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName,
			&u.HashedPassword, &u.Status, &u.CreatedAt)
		u.IsActive = u.Status == models.UserStatusActive
	} else {
		err = row.Scan(&u.ID, &u.Email, &u.Phone, &u.FirstName, &u.LastName,
			&u.HashedPassword, &u.IsActive, &u.CreatedAt)
		if u.IsActive {
			u.Status = models.UserStatusActive
		} else {
			u.Status = models.UserStatusInactive
		}
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
