// internal/pkg/jwt/claims.go
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of an admin session token.
type Claims struct {
	AdminID int64 `json:"admin_id"`
	jwt.RegisteredClaims
}

// ExpiresAtTime returns the exp claim, or the zero time when it is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the token is no longer usable at now. The exp
// claim is the only expiry the service looks at; a token without one is
// treated as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}
