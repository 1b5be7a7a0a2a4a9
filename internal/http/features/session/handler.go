package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/payserv/payment-accounts/internal/auth"
	"github.com/payserv/payment-accounts/internal/httputil"
	"github.com/payserv/payment-accounts/pkg/domain"
	"github.com/payserv/payment-accounts/pkg/service"
)

// Handler handles registration and login endpoints.
type Handler struct {
	logger      *slog.Logger
	authService *service.AuthService
	userService *service.UserService
	tokens      *auth.TokenService
}

// NewHandler creates a new session handler.
func NewHandler(logger *slog.Logger, authService *service.AuthService, userService *service.UserService, tokens *auth.TokenService) *Handler {
	return &Handler{
		logger:      logger,
		authService: authService,
		userService: userService,
		tokens:      tokens,
	}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	RequiresApproval bool   `json:"requires_approval"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Register creates a new account.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			httputil.Error(w, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, domain.ErrInvalidEmail), errors.Is(err, domain.ErrWeakPassword):
			httputil.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("registration failed", "error", err)
			httputil.Error(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	httputil.JSON(w, http.StatusCreated, RegisterResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		RequiresApproval: user.RequiresApproval,
	})
}

// Login authenticates an account and issues an access token. Eligibility
// (email confirmation, approval, lockout) is checked after the password,
// and the first failing reason is returned to the user.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			httputil.Error(w, http.StatusUnauthorized, domain.LoginMsgInvalid)
			return
		}
		h.logger.Error("login failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	if ok, reason := h.userService.CanLogin(user); !ok {
		h.logger.Info("login rejected", "user_id", user.ID, "reason", reason)
		httputil.Error(w, http.StatusForbidden, reason)
		return
	}

	admin, err := h.userService.IsAdmin(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to resolve roles at login", "user_id", user.ID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.tokens.IssueAccessToken(user, admin)
	if err != nil {
		h.logger.Error("failed to issue access token", "user_id", user.ID, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	httputil.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokens.TTL().Seconds()),
	})
}
