package admin

import (
	"strings"
	"time"
)

// LoginRequest is bound from the login form.
type LoginRequest struct {
	Username  string `form:"username" binding:"required"`
	Password  string `form:"password" binding:"required"`
	IPAddress string `form:"-"`
}

// Normalize trims the username; passwords are compared as typed.
func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}

// Valid reports whether both credentials are present after trimming.
func (r *LoginRequest) Valid() bool {
	return r.Username != "" && r.Password != ""
}

// LoginResult carries the freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     AdminInfo
}
