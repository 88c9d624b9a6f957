// internal/pkg/response/response.go
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response. The message is what the client
// sees; err is never echoed back, callers log it themselves.
func Error(c *gin.Context, code int, message string, data ...interface{}) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
		Error:   message,
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}

	c.JSON(code, resp)
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Redirect aborts the chain and sends the client elsewhere.
func Redirect(c *gin.Context, code int, location string) {
	c.Redirect(code, location)
	c.Abort()
}
