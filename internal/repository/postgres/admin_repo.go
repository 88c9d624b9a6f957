// internal/repository/postgres/admin_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername looks an admin up by exact username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM admins
		WHERE username = $1
	`

	var a admin.Admin
	err := r.db.QueryRow(ctx, query, username).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt,
	)
	if err != nil {
		if xerrors.Is(mapError(err), xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &a, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id int64) (*admin.Admin, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM admins
		WHERE id = $1
	`

	var a admin.Admin
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt,
	)
	if err != nil {
		if xerrors.Is(mapError(err), xerrors.ErrNotFound) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return &a, nil
}

func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	query := `
		INSERT INTO admins (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, a.Username, a.Email, a.PasswordHash).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", mapError(err))
	}
	return nil
}

func (r *AdminRepository) List(ctx context.Context) ([]admin.Admin, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM admins
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	admins := []admin.Admin{}
	for rows.Next() {
		var a admin.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		admins = append(admins, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admins: %w", err)
	}
	return admins, nil
}
