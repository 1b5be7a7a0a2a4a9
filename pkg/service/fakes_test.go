package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// In-memory fakes for the store contracts. Kept deliberately dumb: they
// mirror what the Postgres repositories do without any SQL.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	updateErr         error
	lockoutEnabledErr error
	lockoutEndErr     error
	deleteErr         error
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		cp := *u
		s.users[u.ID] = &cp
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return domain.ErrUserAlreadyExists
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *fakeUserStore) GetAll(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []*domain.User
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *fakeUserStore) SetLockoutEnabled(_ context.Context, id uuid.UUID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockoutEnabledErr != nil {
		return s.lockoutEnabledErr
	}
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LockoutEnabled = enabled
	return nil
}

func (s *fakeUserStore) SetLockoutEnd(_ context.Context, id uuid.UUID, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockoutEndErr != nil {
		return s.lockoutEndErr
	}
	u, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LockoutEnd = end
	return nil
}

func (s *fakeUserStore) get(id uuid.UUID) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type fakeRoleStore struct {
	mu    sync.Mutex
	roles map[uuid.UUID][]string
	users *fakeUserStore

	addErr    error
	removeErr error
}

func newFakeRoleStore(users *fakeUserStore) *fakeRoleStore {
	return &fakeRoleStore{roles: make(map[uuid.UUID][]string), users: users}
}

func (s *fakeRoleStore) RolesForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.roles[userID]...), nil
}

func (s *fakeRoleStore) UsersInRole(ctx context.Context, role string) ([]*domain.User, error) {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0)
	for id, roles := range s.roles {
		for _, r := range roles {
			if r == role {
				ids = append(ids, id)
			}
		}
	}
	s.mu.Unlock()

	var users []*domain.User
	for _, id := range ids {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *fakeRoleStore) AddToRole(_ context.Context, userID uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	for _, r := range s.roles[userID] {
		if r == role {
			return nil
		}
	}
	s.roles[userID] = append(s.roles[userID], role)
	return nil
}

func (s *fakeRoleStore) RemoveFromRole(_ context.Context, userID uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	roles := s.roles[userID]
	for i, r := range roles {
		if r == role {
			s.roles[userID] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeFileStore struct {
	files []domain.StoredFile
	err   error
}

func (s *fakeFileStore) FilesByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.StoredFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	var owned []domain.StoredFile
	for _, f := range s.files {
		if f.OwnerID == ownerID {
			owned = append(owned, f)
		}
	}
	return owned, nil
}

type fakeFileRemover struct {
	mu      sync.Mutex
	removed []string
	failFor map[string]error
}

func (r *fakeFileRemover) RemoveFile(_ context.Context, fileID string, _ uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failFor[fileID]; ok {
		return err
	}
	r.removed = append(r.removed, fileID)
	return nil
}

type fakeCredentialStore struct {
	mu    sync.Mutex
	creds map[uuid.UUID]*domain.UserCredential
	err   error
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{creds: make(map[uuid.UUID]*domain.UserCredential)}
}

func (s *fakeCredentialStore) Create(_ context.Context, cred *domain.UserCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *cred
	s.creds[cred.UserID] = &cp
	return nil
}

func (s *fakeCredentialStore) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.UserCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *cred
	return &cp, nil
}

func (s *fakeCredentialStore) Update(_ context.Context, cred *domain.UserCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.creds[cred.UserID] = &cp
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
