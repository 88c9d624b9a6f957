// internal/pkg/jwt/generator.go
package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret []byte, issuer string, ttl time.Duration) *Generator {
	return &Generator{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate signs a session token for adminID and returns it together with
// its absolute expiry.
func (g *Generator) Generate(adminID int64) (string, time.Time, error) {
	if len(g.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt generator has empty secret")
	}

	now := g.now()
	expiresAt := now.Add(g.ttl)

	claims := &Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   strconv.FormatInt(adminID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	// exp is carried with second precision, report the same value the
	// verifier will see.
	return signed, claims.ExpiresAt.Time, nil
}
