package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/auth"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// AccountPolicy holds the registration-time policy flags stamped onto
// new accounts.
type AccountPolicy struct {
	RequireEmailConfirmation bool
	RequireApproval          bool
}

// AuthService handles account registration and password authentication.
// Login eligibility (confirmation, approval, lockout) is decided
// separately by UserService.CanLogin.
type AuthService struct {
	users  UserStore
	creds  CredentialStore
	policy AccountPolicy
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users UserStore, creds CredentialStore, policy AccountPolicy, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:  users,
		creds:  creds,
		policy: policy,
		logger: logger,
	}
}

// Register creates a new account with password credentials. Policy flags
// come from the service configuration; accounts that do not require
// approval are created pre-approved.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}
	email = auth.NormalizeEmail(email)

	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:                        uuid.New(),
		Email:                     email,
		EmailConfirmed:            false,
		RequiresEmailConfirmation: s.policy.RequireEmailConfirmation,
		Approved:                  !s.policy.RequireApproval,
		RequiresApproval:          s.policy.RequireApproval,
		LockoutEnabled:            true,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	cred := &domain.UserCredential{
		UserID:            user.ID,
		PasswordHash:      hash,
		PasswordUpdatedAt: now,
	}
	if err := s.creds.Create(ctx, cred); err != nil {
		// Roll the half-created account back so the email stays free.
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("failed to clean up user after credential failure",
				"user_id", user.ID, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email,
		"requires_approval", user.RequiresApproval)
	return user, nil
}

// Authenticate verifies an email/password pair and returns the matching
// user. Unknown emails and wrong passwords are indistinguishable to
// the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := s.creds.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, cred.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
