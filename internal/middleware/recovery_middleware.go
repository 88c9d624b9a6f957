// internal/middleware/recovery_middleware.go
package middleware

import (
	"net/http"

	"github.com/vishnupprajapat/nextfast/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a logged 500. When the
// handler already started writing, the connection is only aborted.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				response.Error(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
