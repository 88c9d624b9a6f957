// internal/handlers/auth/users_handler.go
package auth

import (
	"context"
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserLister interface {
	ListUsers(ctx context.Context) ([]admin.User, error)
}

// UsersHandler renders the storefront accounts for signed in admins.
type UsersHandler struct {
	users  UserLister
	logger *zap.Logger
}

func NewUsersHandler(users UserLister, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		users:  users,
		logger: logger,
	}
}

func (h *UsersHandler) UsersPage(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "users.html", gin.H{"Error": "Failed to load users"})
		return
	}

	c.HTML(http.StatusOK, "users.html", gin.H{"Users": users})
}
