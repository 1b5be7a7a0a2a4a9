package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/payserv/payment-accounts/internal/httputil"
	"github.com/payserv/payment-accounts/pkg/domain"
	"github.com/payserv/payment-accounts/pkg/service"
)

// Handler handles admin user-management endpoints.
type Handler struct {
	logger      *slog.Logger
	userService *service.UserService
	users       service.UserStore
}

// NewHandler creates a new users handler.
func NewHandler(logger *slog.Logger, userService *service.UserService, users service.UserStore) *Handler {
	return &Handler{
		logger:      logger,
		userService: userService,
		users:       users,
	}
}

// List returns all users with their role names.
// GET /v1/admin/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.userService.ListUsersWithRoles(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	httputil.JSON(w, http.StatusOK, infos)
}

// ApprovalRequest represents an approval change.
type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

// SetApproval flips a user's approval state.
// PUT /v1/admin/users/{id}/approval
func (h *Handler) SetApproval(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req ApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.users.GetByID(r.Context(), id); err != nil {
		h.notFoundOrInternal(w, err)
		return
	}

	if !h.userService.SetUserApproval(r.Context(), id, req.Approved, requestURI(r)) {
		httputil.Error(w, http.StatusConflict, "approval state not changed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LockoutRequest represents an enable/disable change. A null lockout_end
// re-enables the account.
type LockoutRequest struct {
	LockoutEnd *time.Time `json:"lockout_end"`
}

// SetLockout disables an account until the given deadline, or re-enables
// it when the deadline is null.
// PUT /v1/admin/users/{id}/lockout
func (h *Handler) SetLockout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req LockoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.LockoutEnd != nil {
		target, err := h.users.GetByID(r.Context(), id)
		if err != nil {
			h.notFoundOrInternal(w, err)
			return
		}
		only, err := h.userService.IsOnlyActiveAdmin(r.Context(), target)
		if err != nil {
			h.logger.Error("failed to check last admin", "user_id", id, "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to update account")
			return
		}
		if only {
			httputil.Error(w, http.StatusForbidden, "cannot disable the last active admin")
			return
		}
	}

	updated, err := h.userService.ToggleUser(r.Context(), id, req.LockoutEnd)
	if errors.Is(err, domain.ErrUserNotFound) {
		httputil.Error(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil || !updated {
		httputil.Error(w, http.StatusInternalServerError, "failed to update account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminRoleRequest represents an admin-role change.
type AdminRoleRequest struct {
	Admin bool `json:"admin"`
}

// SetAdminRole grants or revokes the server admin role.
// PUT /v1/admin/users/{id}/admin-role
func (h *Handler) SetAdminRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req AdminRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err)
		return
	}

	if !req.Admin {
		only, err := h.userService.IsOnlyActiveAdmin(r.Context(), target)
		if err != nil {
			h.logger.Error("failed to check last admin", "user_id", id, "error", err)
			httputil.Error(w, http.StatusInternalServerError, "failed to update admin role")
			return
		}
		if only {
			httputil.Error(w, http.StatusForbidden, "cannot demote the last active admin")
			return
		}
	}

	if !h.userService.SetAdmin(r.Context(), id, req.Admin) {
		httputil.Error(w, http.StatusInternalServerError, "failed to update admin role")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an account and all its stored files.
// DELETE /v1/admin/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	target, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.notFoundOrInternal(w, err)
		return
	}

	only, err := h.userService.IsOnlyActiveAdmin(r.Context(), target)
	if err != nil {
		h.logger.Error("failed to check last admin", "user_id", id, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if only {
		httputil.Error(w, http.StatusForbidden, "cannot delete the last active admin")
		return
	}

	h.userService.DeleteUserAndData(r.Context(), target)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) notFoundOrInternal(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUserNotFound) {
		httputil.Error(w, http.StatusNotFound, "user not found")
		return
	}
	h.logger.Error("failed to load user", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "failed to load user")
}

// requestURI reconstructs the absolute URI of the request for event
// payloads.
func requestURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
