package models

import "time"

// UserStatus mirrors the student status column; academy and admin rows
// carry a plain is_active flag instead.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

// User is a directory row projected from one of the three role tables.
// The directory is an external collaborator of the credential core: we
// look users up by id/email/phone and read role, status and names, and
// nothing else.
type User struct {
	ID             string     `json:"id"`
	Role           Role       `json:"role"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	HashedPassword string     `json:"-"`
	Status         UserStatus `json:"status"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CanAuthenticate reports whether the account is in a state that may be
// issued credentials. Students gate on status, academy/admin on the
// active flag.
func (u *User) CanAuthenticate() bool {
	if u.Role == RoleStudent {
		return u.Status == UserStatusActive
	}
	return u.IsActive
}

// DisplayName is what the notification channel shows alongside a code.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}
