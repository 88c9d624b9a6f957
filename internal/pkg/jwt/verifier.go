// internal/pkg/jwt/verifier.go
package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, foreign algorithms, malformed
// input and issuer mismatches.
var ErrInvalidToken = errors.New("invalid token")

type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{
		secret: secret,
		issuer: issuer,
	}
}

// Verify checks the token's signature and structure and returns its claims.
// Expiry is left to the caller through Claims.Expired.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("jwt verifier has empty secret")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}

	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: expected issuer %s, got %s", ErrInvalidToken, v.issuer, claims.Issuer)
	}
	if claims.AdminID <= 0 {
		return nil, fmt.Errorf("%w: missing admin id", ErrInvalidToken)
	}

	return claims, nil
}
