package product

import "context"

type Repository interface {
	Search(ctx context.Context, q Query, limit, offset int) ([]Product, int64, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]Product, error)
	SuggestByName(ctx context.Context, term string, limit int) ([]Product, error)
	Exists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Rename(ctx context.Context, originalSlug string, p *Product) error
	Delete(ctx context.Context, slug string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}
