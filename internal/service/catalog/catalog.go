// internal/service/catalog/catalog.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/domain/catalog"
	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"go.uber.org/zap"
)

var ErrSubcategoryNotFound = fmt.Errorf("%w: subcategory not found", xerrors.ErrNotFound)

// ProductCounter reports catalogue totals.
type ProductCounter interface {
	CountByStatus(ctx context.Context) (*product.StatusCounts, error)
}

type CatalogService struct {
	repo     catalog.Repository
	products ProductCounter
	logger   *zap.Logger
}

func NewCatalogService(repo catalog.Repository, products ProductCounter, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// Home returns the collection tree and the number of products on sale.
func (s *CatalogService) Home(ctx context.Context) (*catalog.Home, error) {
	collections, err := s.repo.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}

	counts, err := s.products.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &catalog.Home{Collections: collections, ProductCount: counts.Total}, nil
}

// Categories lists every category with its collection, ordered by name.
func (s *CatalogService) Categories(ctx context.Context) ([]catalog.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) SubcategoryProducts(ctx context.Context, slug string) (*catalog.SubcategoryProducts, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSubcategoryNotFound
	}

	sub, err := s.repo.FindSubcategory(ctx, slug)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to load subcategory: %w", err)
	}

	products, count, err := s.repo.ProductsBySubcategory(ctx, sub.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategory products: %w", err)
	}

	s.logger.Debug("subcategory listed", zap.String("slug", sub.Slug), zap.Int64("count", count))
	return &catalog.SubcategoryProducts{Subcategory: *sub, Products: products, Count: count}, nil
}
