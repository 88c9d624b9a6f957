// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/pkg/response"
	"github.com/vishnupprajapat/nextfast/internal/pkg/session"
	"github.com/vishnupprajapat/nextfast/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	LoginPath  = "/admin/admin-auth"
	LogoutPath = "/admin/logout"

	authenticatedKey = "admin_auth"
	resolvedAdminKey = "admin"
)

// Authenticator is the part of the auth service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Authenticated, error)
	Resolve(ctx context.Context, a *auth.Authenticated) (*auth.ResolvedAdmin, error)
}

type AuthMiddleware struct {
	authService  Authenticator
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthMiddleware(authService Authenticator, cookieSecure bool, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService:  authService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// isPublicAdminPath reports whether path is reachable without a session:
// the login page (and anything below it) and logout.
func isPublicAdminPath(path string) bool {
	return path == LoginPath ||
		strings.HasPrefix(path, LoginPath+"/") ||
		path == LogoutPath
}

// AdminGate guards every /admin route. It only checks the token, so it
// never touches the database.
func (m *AuthMiddleware) AdminGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicAdminPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := session.AdminToken(c)
		if !ok {
			response.Redirect(c, http.StatusFound, LoginPath)
			return
		}

		authenticated, err := m.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			m.logger.Debug("admin gate rejected session",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			session.ClearAdminCookie(c, m.cookieSecure)
			response.Redirect(c, http.StatusFound, LoginPath)
			return
		}

		c.Set(authenticatedKey, authenticated)
		c.Next()
	}
}

// RequireAdmin re-reads the admin behind the session for pages. A session
// whose admin has been removed is sent back to the login page.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.resolve(func(c *gin.Context) {
		session.ClearAdminCookie(c, m.cookieSecure)
		response.Redirect(c, http.StatusFound, LoginPath)
	})
}

// RequireAdminJSON is RequireAdmin for JSON actions: failures answer 401.
func (m *AuthMiddleware) RequireAdminJSON() gin.HandlerFunc {
	return m.resolve(func(c *gin.Context) {
		response.Unauthorized(c, "Admin authentication required")
	})
}

func (m *AuthMiddleware) resolve(deny gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated, ok := GetAuthenticated(c)
		if !ok {
			deny(c)
			return
		}

		resolved, err := m.authService.Resolve(c.Request.Context(), authenticated)
		if err != nil {
			m.logger.Info("admin session could not be resolved",
				zap.Int64("admin_id", authenticated.AdminID),
				zap.Error(err))
			deny(c)
			return
		}

		c.Set(resolvedAdminKey, resolved)
		c.Next()
	}
}
