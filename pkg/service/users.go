package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// UserService orchestrates account management on top of the identity and
// file stores: login eligibility, approval workflow, admin-role toggling,
// account enable/disable and cascading deletion.
//
// Expected business conditions (not found, already in the desired state,
// policy mismatch) are reported as false returns plus a log line; only
// data-access faults propagate to the caller.
type UserService struct {
	users  UserStore
	roles  RoleStore
	files  FileStore
	remove FileRemover
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(users UserStore, roles RoleStore, files FileStore, remover FileRemover, events EventPublisher, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:  users,
		roles:  roles,
		files:  files,
		remove: remover,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// ListUsersWithRoles reads all users and joins each to its role names.
func (s *UserService) ListUsersWithRoles(ctx context.Context) ([]domain.UserInfo, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.UserInfo, 0, len(users))
	for _, u := range users {
		roles, err := s.roles.RolesForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		infos = append(infos, domain.NewUserInfo(u, roles))
	}

	return infos, nil
}

// CanLogin decides whether the given user may log in. The checks run in a
// fixed order and the first failing one wins; the returned message is
// suitable for display to the end user.
func (s *UserService) CanLogin(u *domain.User) (bool, string) {
	if u == nil {
		return false, domain.LoginMsgInvalid
	}
	if !u.EmailConfirmed && u.RequiresEmailConfirmation {
		return false, domain.LoginMsgEmailUnconfirmed
	}
	if !u.Approved && u.RequiresApproval {
		return false, domain.LoginMsgNotApproved
	}
	if u.DisabledAt(s.now()) {
		return false, domain.LoginMsgDisabled
	}
	return true, ""
}

// SetUserApproval flips a user's approval state. Returns false without
// mutating or publishing when the user is missing, the account does not
// require approval, or the state already equals the requested one. On
// success a UserApprovedEvent is published.
func (s *UserService) SetUserApproval(ctx context.Context, userID uuid.UUID, approved bool, requestURI string) bool {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user for approval change", "user_id", userID, "error", err)
		return false
	}
	if !user.RequiresApproval || user.Approved == approved {
		return false
	}

	user.Approved = approved
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update user approval", "user_id", userID, "approved", approved, "error", err)
		return false
	}

	roles, err := s.roles.RolesForUser(ctx, user.ID)
	if err != nil {
		s.logger.Warn("failed to resolve roles for approval event", "user_id", userID, "error", err)
	}
	event := domain.UserApprovedEvent{
		User:       domain.NewUserInfo(user, roles),
		Approved:   approved,
		RequestURI: requestURI,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish user approved event", "user_id", userID, "error", err)
	}

	s.logger.Info("user approval updated", "user_id", userID, "email", user.Email, "approved", approved)
	return true
}

// ToggleUser enables or disables an account via its lockout. A non-nil
// deadline disables the account until that instant, first force-enabling
// the lockout capability if needed; a nil deadline clears the lockout.
// A missing user is reported as domain.ErrUserNotFound to distinguish it
// from a failed update.
func (s *UserService) ToggleUser(ctx context.Context, userID uuid.UUID, lockoutEnd *time.Time) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Warn("user not found for lockout toggle", "user_id", userID)
		return false, domain.ErrUserNotFound
	}
	if err != nil {
		return false, err
	}

	if lockoutEnd != nil && !user.LockoutEnabled {
		if err := s.users.SetLockoutEnabled(ctx, userID, true); err != nil {
			s.logger.Error("failed to enable lockout", "user_id", userID, "error", err)
			return false, nil
		}
	}

	if err := s.users.SetLockoutEnd(ctx, userID, lockoutEnd); err != nil {
		s.logger.Error("failed to set lockout end", "user_id", userID, "error", err)
		return false, nil
	}

	if lockoutEnd != nil {
		s.logger.Info("user disabled", "user_id", userID, "email", user.Email, "lockout_end", *lockoutEnd)
	} else {
		s.logger.Info("user enabled", "user_id", userID, "email", user.Email)
	}
	return true, nil
}

// IsAdmin reports whether the user holds the server admin role.
func (s *UserService) IsAdmin(ctx context.Context, u *domain.User) (bool, error) {
	return s.IsAdminID(ctx, u.ID)
}

// IsAdminID reports whether the user with the given ID holds the server
// admin role.
func (s *UserService) IsAdminID(ctx context.Context, userID uuid.UUID) (bool, error) {
	roles, err := s.roles.RolesForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return domain.IsServerAdmin(roles), nil
}

// SetAdmin grants or revokes the server admin role.
func (s *UserService) SetAdmin(ctx context.Context, userID uuid.UUID, enable bool) bool {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user for admin change", "user_id", userID, "error", err)
		return false
	}

	if enable {
		err = s.roles.AddToRole(ctx, userID, domain.RoleServerAdmin)
	} else {
		err = s.roles.RemoveFromRole(ctx, userID, domain.RoleServerAdmin)
	}
	if err != nil {
		s.logger.Error("failed to change admin role", "user_id", userID, "enable", enable, "error", err)
		return false
	}

	s.logger.Info("admin role updated", "user_id", userID, "email", user.Email, "admin", enable)
	return true
}

// DeleteUserAndData removes all stored files owned by the user and then
// the account record itself. File removals run concurrently and all
// complete before the account is deleted; an individual removal failure
// is logged and does not block the account deletion.
func (s *UserService) DeleteUserAndData(ctx context.Context, u *domain.User) {
	files, err := s.files.FilesByOwner(ctx, u.ID)
	if err != nil {
		s.logger.Error("failed to enumerate user files", "user_id", u.ID, "error", err)
		return
	}

	var wg sync.WaitGroup
	for _, f := range files {
		wg.Add(1)
		go func(f domain.StoredFile) {
			defer wg.Done()
			if err := s.remove.RemoveFile(ctx, f.ID, u.ID); err != nil {
				s.logger.Warn("failed to remove user file", "user_id", u.ID, "file_id", f.ID, "error", err)
			}
		}(f)
	}
	wg.Wait()

	// The record may have vanished while files were being removed.
	user, err := s.users.GetByID(ctx, u.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return
	}
	if err != nil {
		s.logger.Error("failed to re-fetch user before deletion", "user_id", u.ID, "error", err)
		return
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		s.logger.Error("failed to delete user", "user_id", user.ID, "email", user.Email, "error", err)
		return
	}

	if err := s.events.Publish(ctx, domain.UserDeletedEvent{UserID: user.ID.String(), Email: user.Email}); err != nil {
		s.logger.Warn("failed to publish user deleted event", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user and associated data deleted", "user_id", user.ID, "email", user.Email, "files", len(files))
}

// IsOnlyActiveAdmin reports whether the given user is the last remaining
// active administrator: admin, not disabled, approved, and the sole such
// account among all admin-role holders.
func (s *UserService) IsOnlyActiveAdmin(ctx context.Context, u *domain.User) (bool, error) {
	admin, err := s.IsAdmin(ctx, u)
	if err != nil {
		return false, err
	}
	if !admin {
		return false, nil
	}

	admins, err := s.roles.UsersInRole(ctx, domain.RoleServerAdmin)
	if err != nil {
		return false, err
	}

	now := s.now()
	var active []*domain.User
	for _, a := range admins {
		if !a.DisabledAt(now) && a.Approved {
			active = append(active, a)
		}
	}

	return len(active) == 1 && active[0].ID == u.ID, nil
}
