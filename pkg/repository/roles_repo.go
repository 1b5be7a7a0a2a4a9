package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// RolesRepository handles role assignments (users <-> role names).
type RolesRepository struct {
	db *sql.DB
}

// NewRolesRepository creates a new roles repository.
func NewRolesRepository(db *sql.DB) *RolesRepository {
	return &RolesRepository{db: db}
}

// RolesForUser retrieves the role names currently joined to a user.
func (r *RolesRepository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
		ORDER BY role ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}

// UsersInRole retrieves all users holding the given role.
func (r *RolesRepository) UsersInRole(ctx context.Context, role string) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		INNER JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role = $1
		ORDER BY u.created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// AddToRole assigns a role to a user. Adding an already-held role is a no-op.
func (r *RolesRepository) AddToRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, role)
	return err
}

// RemoveFromRole removes a role from a user.
func (r *RolesRepository) RemoveFromRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role = $2`
	_, err := r.db.ExecContext(ctx, query, userID, role)
	return err
}
