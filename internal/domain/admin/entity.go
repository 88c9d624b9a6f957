// internal/domain/admin/entity.go
package admin

import "time"

type Admin struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        *string   `json:"email,omitempty" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// User is a storefront account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminInfo is what pages may show about the signed in admin.
type AdminInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (a *Admin) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Username: a.Username}
}
