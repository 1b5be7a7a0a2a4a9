package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/payserv/payment-accounts/internal/auth"
	"github.com/payserv/payment-accounts/internal/http/features/session"
	"github.com/payserv/payment-accounts/internal/http/features/users"
	"github.com/payserv/payment-accounts/internal/http/middleware"
	"github.com/payserv/payment-accounts/internal/httputil"
	"github.com/payserv/payment-accounts/pkg/service"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *service.AuthService
	UserService    *service.UserService
	Tokens         *auth.TokenService
	UserStore      service.UserStore
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// NewRouter creates a new HTTP router with all routes registered.
//
// Routes:
//
//	POST /v1/auth/register                      - Register with email/password
//	POST /v1/auth/login                         - Login, returns a bearer token
//	GET  /v1/admin/users                        - List users with roles (admin)
//	PUT  /v1/admin/users/{id}/approval          - Approve/unapprove an account (admin)
//	PUT  /v1/admin/users/{id}/lockout           - Disable/enable an account (admin)
//	PUT  /v1/admin/users/{id}/admin-role        - Grant/revoke the admin role (admin)
//	DELETE /v1/admin/users/{id}                 - Delete an account and its files (admin)
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	sessionHandler := session.NewHandler(cfg.Logger, cfg.AuthService, cfg.UserService, cfg.Tokens)
	r.Group(func(r chi.Router) {
		if cfg.AuthRateLimit > 0 {
			r.Use(middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow, cfg.Logger))
		}
		r.Post("/v1/auth/register", sessionHandler.Register)
		r.Post("/v1/auth/login", sessionHandler.Login)
	})

	usersHandler := users.NewHandler(cfg.Logger, cfg.UserService, cfg.UserStore)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Tokens))
		r.Use(middleware.RequireAdmin)

		r.Get("/v1/admin/users", usersHandler.List)
		r.Put("/v1/admin/users/{id}/approval", usersHandler.SetApproval)
		r.Put("/v1/admin/users/{id}/lockout", usersHandler.SetLockout)
		r.Put("/v1/admin/users/{id}/admin-role", usersHandler.SetAdminRole)
		r.Delete("/v1/admin/users/{id}", usersHandler.Delete)
	})

	return r
}
