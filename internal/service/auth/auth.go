// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"
	"github.com/vishnupprajapat/nextfast/internal/pkg/jwt"
	"github.com/vishnupprajapat/nextfast/internal/pkg/password"

	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = fmt.Errorf("%w: username and password are required", xerrors.ErrInvalidInput)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", xerrors.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid session token", xerrors.ErrUnauthorized)
	ErrSessionExpired     = xerrors.ErrSessionExpired
	ErrAdminNotFound      = fmt.Errorf("%w: admin no longer exists", xerrors.ErrUnauthorized)
	ErrRateLimited        = fmt.Errorf("%w: too many login attempts", xerrors.ErrRateLimited)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", xerrors.ErrNotFound)
)

// LoginLimiter throttles sign in attempts per client and username.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, username string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, username string) error
}

// Authenticated is a verified, unexpired session. No database lookup has
// happened yet.
type Authenticated struct {
	AdminID   int64
	ExpiresAt time.Time
}

// ResolvedAdmin is an Authenticated session whose admin row still exists.
type ResolvedAdmin struct {
	Authenticated
	Admin *admin.Admin
}

type AuthService struct {
	adminRepo   admin.Repository
	userRepo    admin.UserRepository
	jwtManager  *jwt.Manager
	rateLimiter LoginLimiter
	logger      *zap.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type Option func(*AuthService)

// WithClock replaces the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// WithRateLimiter enables login throttling.
func WithRateLimiter(l LoginLimiter) Option {
	return func(s *AuthService) { s.rateLimiter = l }
}

func NewAuthService(
	adminRepo admin.Repository,
	userRepo admin.UserRepository,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		adminRepo:  adminRepo,
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ========== Session ==========

// Authenticate verifies a session token and checks that it has not expired.
// It never touches the database.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Authenticated, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := s.jwtManager.Verifier.Verify(token)
	if err != nil {
		s.logger.Debug("session token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if claims.Expired(s.now()) {
		return nil, ErrSessionExpired
	}

	return &Authenticated{
		AdminID:   claims.AdminID,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// Resolve re-reads the admin behind a session. A deleted admin is treated
// as logged out.
func (s *AuthService) Resolve(ctx context.Context, auth *Authenticated) (*ResolvedAdmin, error) {
	if auth == nil {
		return nil, ErrInvalidToken
	}

	a, err := s.adminRepo.FindByID(ctx, auth.AdminID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to resolve admin: %w", err)
	}

	return &ResolvedAdmin{Authenticated: *auth, Admin: a}, nil
}

// ========== Sign in ==========

// SignIn checks the credentials and issues a session token. Unknown
// usernames and wrong passwords fail identically.
func (s *AuthService) SignIn(ctx context.Context, req *admin.LoginRequest) (*admin.LoginResult, error) {
	req.Normalize()
	if !req.Valid() {
		return nil, ErrMissingCredentials
	}

	if s.rateLimiter != nil {
		allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Username)
		switch {
		case err != nil:
			s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		case !allowed:
			s.logger.Warn("login rate limited",
				zap.String("username", req.Username),
				zap.String("ip", req.IPAddress))
			return nil, ErrRateLimited
		default:
			s.logger.Debug("login attempt counted", zap.Int64("remaining", remaining))
		}
	}

	a, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			// burn the same bcrypt work as a real comparison
			password.Compare(req.Password, s.placeholderHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !password.Compare(req.Password, a.PasswordHash) {
		s.logger.Info("admin sign in failed", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.Generator.Generate(a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Username); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	s.logger.Info("admin signed in", zap.Int64("admin_id", a.ID), zap.String("username", a.Username))

	return &admin.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     a.Info(),
	}, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, err := password.Hash("placeholder-password")
		if err != nil {
			s.logger.Error("failed to build placeholder hash", zap.Error(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
