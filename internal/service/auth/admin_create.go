// internal/service/auth/admin_create.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"
	"github.com/vishnupprajapat/nextfast/internal/pkg/password"

	"go.uber.org/zap"
)

// CreateAdmin adds an admin account. When the username is already taken the
// existing admin is returned untouched and created is false.
func (s *AuthService) CreateAdmin(ctx context.Context, username, plain string) (a *admin.Admin, created bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" || plain == "" {
		return nil, false, ErrMissingCredentials
	}

	existing, err := s.adminRepo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check admin: %w", err)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	a = &admin.Admin{Username: username, PasswordHash: hash}
	if err := s.adminRepo.Create(ctx, a); err != nil {
		return nil, false, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("admin created", zap.Int64("admin_id", a.ID), zap.String("username", a.Username))
	return a, true, nil
}

// ListAdmins returns every admin ordered by id.
func (s *AuthService) ListAdmins(ctx context.Context) ([]admin.Admin, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// UserListLimit caps the admin users page.
const UserListLimit = 100

// ListUsers returns the oldest storefront accounts, up to UserListLimit.
func (s *AuthService) ListUsers(ctx context.Context) ([]admin.User, error) {
	users, err := s.userRepo.ListRecent(ctx, UserListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// PromoteUser grants admin access to an existing storefront user by copying
// its username and password hash. An existing admin is reported with
// created false.
func (s *AuthService) PromoteUser(ctx context.Context, username string) (a *admin.Admin, created bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, fmt.Errorf("%w: username is required", xerrors.ErrInvalidInput)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to load user: %w", err)
	}

	existing, err := s.adminRepo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to check admin: %w", err)
	}

	a = &admin.Admin{Username: user.Username, PasswordHash: user.PasswordHash}
	if err := s.adminRepo.Create(ctx, a); err != nil {
		return nil, false, fmt.Errorf("failed to promote user: %w", err)
	}

	s.logger.Info("user promoted to admin", zap.Int64("user_id", user.ID), zap.Int64("admin_id", a.ID))
	return a, true, nil
}
