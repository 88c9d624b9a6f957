// Package password wraps bcrypt for admin credentials.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is fixed so hashes produced by the provisioning tool and by the
// server are interchangeable.
const Cost = 10

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether plain matches hash. Malformed hashes compare false.
func Compare(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
