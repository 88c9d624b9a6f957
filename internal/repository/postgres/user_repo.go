// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository reads storefront accounts for promotion and the users page.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*admin.User, error) {
	var u admin.User
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if xerrors.Is(mapError(err), xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ListRecent(ctx context.Context, limit int) ([]admin.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, username, created_at FROM users ORDER BY created_at ASC, id ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []admin.User{}
	for rows.Next() {
		var u admin.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
