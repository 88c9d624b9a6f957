// internal/middleware/helpers.go
package middleware

import (
	"github.com/vishnupprajapat/nextfast/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// GetAuthenticated returns the session verified by AdminGate.
func GetAuthenticated(c *gin.Context) (*auth.Authenticated, bool) {
	v, exists := c.Get(authenticatedKey)
	if !exists {
		return nil, false
	}
	a, ok := v.(*auth.Authenticated)
	return a, ok && a != nil
}

// GetResolvedAdmin returns the admin loaded by RequireAdmin.
func GetResolvedAdmin(c *gin.Context) (*auth.ResolvedAdmin, bool) {
	v, exists := c.Get(resolvedAdminKey)
	if !exists {
		return nil, false
	}
	a, ok := v.(*auth.ResolvedAdmin)
	return a, ok && a != nil
}

// MustGetResolvedAdmin gets the resolved admin from context or panics
func MustGetResolvedAdmin(c *gin.Context) *auth.ResolvedAdmin {
	a, exists := GetResolvedAdmin(c)
	if !exists {
		panic("resolved admin not found in context")
	}
	return a
}

// IsAuthenticated checks if request carries a verified admin session
func IsAuthenticated(c *gin.Context) bool {
	_, exists := GetAuthenticated(c)
	return exists
}
