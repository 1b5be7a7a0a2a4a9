package domain

import "github.com/google/uuid"

// RoleServerAdmin is the reserved role name granting elevated privileges
// across the application.
const RoleServerAdmin = "ServerAdmin"

// UserRole associates a user with a role name.
type UserRole struct {
	UserID uuid.UUID
	Role   string
}

// IsServerAdmin returns true if the given role names contain the
// reserved server admin role.
func IsServerAdmin(roles []string) bool {
	for _, r := range roles {
		if r == RoleServerAdmin {
			return true
		}
	}
	return false
}
