// internal/pkg/session/cookie.go
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "admin_session"
	// CookiePath keeps the admin token away from storefront requests.
	CookiePath = "/admin"
)

// SetAdminCookie stores a signed session token for the admin area.
func SetAdminCookie(c *gin.Context, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAdminCookie expires the session cookie on the client.
func ClearAdminCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AdminToken returns the raw session token sent with the request, if any.
func AdminToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}
