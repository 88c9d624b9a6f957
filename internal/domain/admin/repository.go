// internal/domain/admin/repository.go
package admin

import "context"

type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	FindByID(ctx context.Context, id int64) (*Admin, error)
	Create(ctx context.Context, a *Admin) error
	List(ctx context.Context) ([]Admin, error)
}

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	// ListRecent returns up to limit users, oldest first.
	ListRecent(ctx context.Context, limit int) ([]User, error)
}
