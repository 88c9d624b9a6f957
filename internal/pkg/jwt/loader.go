// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
	"time"
)

// SessionTTL is how long an admin session token stays valid.
const SessionTTL = 24 * time.Hour

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

type Option func(*Manager)

// WithClock replaces the generator's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.Generator.now = now
	}
}

func Build(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = SessionTTL
	}

	secret := []byte(cfg.Secret)
	m := &Manager{
		Generator: NewGenerator(secret, cfg.Issuer, ttl),
		Verifier:  NewVerifier(secret, cfg.Issuer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}
