// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"
	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	"github.com/vishnupprajapat/nextfast/internal/middleware"
	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	"github.com/vishnupprajapat/nextfast/internal/pkg/session"
	authUsecase "github.com/vishnupprajapat/nextfast/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgMissingCredentials = "Username and password are required"
	msgInvalidCredentials = "Invalid username or password"
	msgRateLimited        = "Too many sign in attempts. Please try again later."
	msgSignInFailed       = "An error occurred during sign in"
)

type AuthService interface {
	SignIn(ctx context.Context, req *admin.LoginRequest) (*admin.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*authUsecase.Authenticated, error)
}

type CountsService interface {
	Counts(ctx context.Context) (*product.StatusCounts, error)
}

// SessionCloser drops live connections that belong to a signed out admin.
type SessionCloser interface {
	DisconnectAdmin(adminID int64, reason string)
}

type AuthHandler struct {
	authService  AuthService
	counts       CountsService
	closer       SessionCloser
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthHandler(authService AuthService, counts CountsService, closer SessionCloser, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		counts:       counts,
		closer:       closer,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// ========== Sign in ==========

// LoginPage renders the sign in form. Signed in admins see it too.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": "", "Username": ""})
}

// Login checks the submitted credentials and starts an admin session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, msgMissingCredentials, "")
		return
	}
	req.IPAddress = c.ClientIP()

	result, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		status, message := signInFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("admin sign in failed", zap.String("ip", req.IPAddress), zap.Error(err))
		}
		h.renderLogin(c, status, message, req.Username)
		return
	}

	session.SetAdminCookie(c, result.Token, result.ExpiresAt, h.cookieSecure)
	response.Redirect(c, http.StatusSeeOther, "/admin")
}

func signInFailure(err error) (int, string) {
	switch {
	case errors.Is(err, authUsecase.ErrMissingCredentials):
		return http.StatusBadRequest, msgMissingCredentials
	case errors.Is(err, authUsecase.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, authUsecase.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	default:
		return http.StatusInternalServerError, msgSignInFailed
	}
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, message, username string) {
	c.HTML(status, "login.html", gin.H{
		"Error":    message,
		"Username": username,
	})
	c.Abort()
}

// Logout clears the session cookie and closes the admin's live feeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := session.AdminToken(c); ok && h.closer != nil {
		if authenticated, err := h.authService.Authenticate(c.Request.Context(), token); err == nil {
			h.closer.DisconnectAdmin(authenticated.AdminID, "logout")
		}
	}

	session.ClearAdminCookie(c, h.cookieSecure)
	response.Redirect(c, http.StatusSeeOther, middleware.LoginPath)
}

// ========== Pages ==========

func (h *AuthHandler) Home(c *gin.Context) {
	response.Redirect(c, http.StatusFound, "/admin/dashboard")
}

// Dashboard shows the signed in admin and the catalogue counters.
func (h *AuthHandler) Dashboard(c *gin.Context) {
	resolved := middleware.MustGetResolvedAdmin(c)

	counts, err := h.counts.Counts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load dashboard counts", zap.Error(err))
		counts = &product.StatusCounts{}
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Admin":  resolved.Admin.Info(),
		"Counts": counts,
	})
}
