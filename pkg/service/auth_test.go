package service

import (
	"context"
	"errors"
	"testing"

	"github.com/payserv/payment-accounts/pkg/domain"
)

func newAuthService(policy AccountPolicy) (*AuthService, *fakeUserStore, *fakeCredentialStore) {
	users := newFakeUserStore()
	creds := newFakeCredentialStore()
	return NewAuthService(users, creds, policy, testLogger()), users, creds
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps policy flags", func(t *testing.T) {
		svc, _, _ := newAuthService(AccountPolicy{
			RequireEmailConfirmation: true,
			RequireApproval:          true,
		})

		user, err := svc.Register(ctx, "Merchant@Example.com", "a strong password")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.Email != "merchant@example.com" {
			t.Errorf("email = %q, want normalized lowercase", user.Email)
		}
		if !user.RequiresEmailConfirmation || !user.RequiresApproval {
			t.Error("policy flags not stamped onto the account")
		}
		if user.Approved {
			t.Error("account pre-approved despite approval policy")
		}
		if !user.LockoutEnabled {
			t.Error("lockout capability not enabled on new account")
		}
	})

	t.Run("pre-approves when approval not required", func(t *testing.T) {
		svc, _, _ := newAuthService(AccountPolicy{})

		user, err := svc.Register(ctx, "user@example.com", "a strong password")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if !user.Approved {
			t.Error("account not pre-approved without approval policy")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := newAuthService(AccountPolicy{})

		if _, err := svc.Register(ctx, "user@example.com", "a strong password"); err != nil {
			t.Fatalf("first Register() error = %v", err)
		}
		_, err := svc.Register(ctx, "user@example.com", "another password")
		if !errors.Is(err, domain.ErrUserAlreadyExists) {
			t.Errorf("Register() error = %v, want ErrUserAlreadyExists", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		svc, _, _ := newAuthService(AccountPolicy{})

		_, err := svc.Register(ctx, "user@example.com", "short")
		if !errors.Is(err, domain.ErrWeakPassword) {
			t.Errorf("Register() error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, _, _ := newAuthService(AccountPolicy{})

		_, err := svc.Register(ctx, "not-an-email", "a strong password")
		if !errors.Is(err, domain.ErrInvalidEmail) {
			t.Errorf("Register() error = %v, want ErrInvalidEmail", err)
		}
	})

	t.Run("credential failure rolls back the account", func(t *testing.T) {
		svc, users, creds := newAuthService(AccountPolicy{})
		creds.err = errors.New("connection reset")

		if _, err := svc.Register(ctx, "user@example.com", "a strong password"); err == nil {
			t.Fatal("Register() error = nil, want failure")
		}
		exists, _ := users.ExistsByEmail(ctx, "user@example.com")
		if exists {
			t.Error("half-created account left behind after credential failure")
		}
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(AccountPolicy{})

	registered, err := svc.Register(ctx, "user@example.com", "a strong password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "User@Example.com", "a strong password")
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("authenticated user ID = %v, want %v", user.ID, registered.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "user@example.com", "wrong")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@example.com", "a strong password")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})
}
