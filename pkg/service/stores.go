package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// UserStore is the identity-store contract the account services depend on.
// Implemented by repository.UsersRepository.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetLockoutEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	SetLockoutEnd(ctx context.Context, id uuid.UUID, end *time.Time) error
}

// RoleStore is the role-store contract. Implemented by
// repository.RolesRepository.
type RoleStore interface {
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	UsersInRole(ctx context.Context, role string) ([]*domain.User, error)
	AddToRole(ctx context.Context, userID uuid.UUID, role string) error
	RemoveFromRole(ctx context.Context, userID uuid.UUID, role string) error
}

// CredentialStore is the password-credential contract. Implemented by
// repository.CredentialsRepository.
type CredentialStore interface {
	Create(ctx context.Context, cred *domain.UserCredential) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserCredential, error)
	Update(ctx context.Context, cred *domain.UserCredential) error
}

// FileStore queries stored-file metadata. Implemented by
// repository.FilesRepository.
type FileStore interface {
	FilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.StoredFile, error)
}

// FileRemover removes a single stored file. Safe to call concurrently.
// Implemented by FileService.
type FileRemover interface {
	RemoveFile(ctx context.Context, fileID string, ownerID uuid.UUID) error
}

// EventPublisher publishes domain events, fire-and-forget.
// Implemented by events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
