package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents the account record held by the identity store.
type User struct {
	ID                        uuid.UUID
	Email                     string
	EmailConfirmed            bool
	RequiresEmailConfirmation bool
	Approved                  bool
	RequiresApproval          bool
	LockoutEnabled            bool
	LockoutEnd                *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Disabled returns true if the account is currently locked out.
// Computed, never stored.
func (u *User) Disabled() bool {
	return u.DisabledAt(time.Now())
}

// DisabledAt reports the lockout state as of the given instant.
func (u *User) DisabledAt(now time.Time) bool {
	if !u.LockoutEnabled || u.LockoutEnd == nil {
		return false
	}
	return now.Before(*u.LockoutEnd)
}

// UserCredential stores password credentials separately from the user record.
type UserCredential struct {
	UserID            uuid.UUID
	PasswordHash      string
	PasswordUpdatedAt time.Time
}

// UserInfo is the read projection of a user joined with its role names.
// Produced on read, never persisted.
type UserInfo struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	Approved       bool      `json:"approved"`
	Disabled       bool      `json:"disabled"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUserInfo projects a user and its resolved role names into a UserInfo.
func NewUserInfo(u *User, roles []string) UserInfo {
	return UserInfo{
		ID:             u.ID,
		Email:          u.Email,
		EmailConfirmed: u.EmailConfirmed,
		Approved:       u.Approved,
		Disabled:       u.Disabled(),
		Roles:          roles,
		CreatedAt:      u.CreatedAt,
	}
}
