// internal/service/product/product.go
package product

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	wstypes "github.com/vishnupprajapat/nextfast/internal/domain/websocket"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"
	"github.com/vishnupprajapat/nextfast/internal/service/auth"

	"go.uber.org/zap"
)

// SuggestionLimit caps the storefront search dropdown.
const SuggestionLimit = 8

var (
	ErrIncomplete      = fmt.Errorf("%w: all fields are required", xerrors.ErrInvalidInput)
	ErrInvalidPrice    = fmt.Errorf("%w: price must be a non-negative number", xerrors.ErrInvalidInput)
	ErrInvalidStock    = fmt.Errorf("%w: stock cannot be negative", xerrors.ErrInvalidInput)
	ErrSlugTaken       = fmt.Errorf("%w: a product with this slug already exists", xerrors.ErrConflict)
	ErrProductNotFound = fmt.Errorf("%w: product not found", xerrors.ErrNotFound)
	ErrAdminRequired   = fmt.Errorf("%w: admin authentication required", xerrors.ErrUnauthorized)
)

// ChangePublisher fans catalogue changes out to live admin dashboards.
type ChangePublisher interface {
	PublishProductChange(event wstypes.EventType, change *wstypes.ProductChangeData)
}

type ProductService struct {
	repo      product.Repository
	publisher ChangePublisher
	pageSize  int
	logger    *zap.Logger
}

func NewProductService(repo product.Repository, publisher ChangePublisher, pageSize int, logger *zap.Logger) *ProductService {
	if pageSize < 1 {
		pageSize = 10
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		pageSize:  pageSize,
		logger:    logger,
	}
}

func (s *ProductService) PageSize() int {
	return s.pageSize
}

// ========== Listing ==========

// Search runs the admin product search: one bounded page ordered by slug
// descending, each row tagged with its positional display id.
func (s *ProductService) Search(ctx context.Context, filters product.SearchFilters) (*product.SearchResult, error) {
	q := filters.Normalize()
	if q.Page-1 > math.MaxInt32/s.pageSize {
		q.Page = 1
	}
	offset := (q.Page - 1) * s.pageSize

	rows, total, err := s.repo.Search(ctx, q, s.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	listed := make([]product.ListedProduct, 0, len(rows))
	for i, p := range rows {
		listed = append(listed, product.ListedProduct{
			Product:   p,
			ProductID: product.DisplayID(offset + i + 1),
			Status:    p.Status(),
		})
	}

	return &product.SearchResult{
		Products:   listed,
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages(total, s.pageSize),
	}, nil
}

func totalPages(total int64, size int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Counts returns the dashboard's stock summary.
func (s *ProductService) Counts(ctx context.Context) (*product.StatusCounts, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	return counts, nil
}

// ========== Storefront ==========

func (s *ProductService) Get(ctx context.Context, slug string) (*product.Product, error) {
	p, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Suggest returns up to SuggestionLimit products whose name contains q.
// A blank query suggests nothing.
func (s *ProductService) Suggest(ctx context.Context, q string) ([]product.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []product.Product{}, nil
	}
	products, err := s.repo.SuggestByName(ctx, q, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest products: %w", err)
	}
	return products, nil
}

// ========== Admin actions ==========

// Save creates a product, updates one in place, or moves it to a new slug,
// depending on OriginalSlug.
func (s *ProductService) Save(ctx context.Context, actor *auth.ResolvedAdmin, req *product.SaveRequest) (*product.Product, error) {
	if actor == nil || actor.Admin == nil {
		return nil, ErrAdminRequired
	}

	req.Normalize()
	if !req.Complete() {
		return nil, ErrIncomplete
	}
	if price, err := strconv.ParseFloat(req.Price, 64); err != nil || price < 0 {
		return nil, ErrInvalidPrice
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p := req.ToProduct()

	var err error
	switch {
	case req.OriginalSlug == "":
		err = s.create(ctx, p)
	case req.OriginalSlug == req.Slug:
		err = s.update(ctx, req, p)
	default:
		err = s.rename(ctx, req, p)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("product saved",
		zap.String("slug", p.Slug),
		zap.String("original_slug", req.OriginalSlug),
		zap.String("admin", actor.Admin.Username))

	s.publish(wstypes.EventTypeProductSaved, &wstypes.ProductChangeData{
		Slug:         p.Slug,
		PreviousSlug: previousSlug(req),
		Name:         p.Name,
		ChangedBy:    actor.Admin.Username,
	})

	return p, nil
}

func (s *ProductService) create(ctx context.Context, p *product.Product) error {
	if err := s.ensureSlugFree(ctx, p.Slug); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return translateWriteError(err)
	}
	return nil
}

func (s *ProductService) update(ctx context.Context, req *product.SaveRequest, p *product.Product) error {
	current, err := s.repo.FindBySlug(ctx, req.OriginalSlug)
	if err != nil {
		return translateWriteError(err)
	}
	if req.Stock == nil {
		p.Stock = current.Stock
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return translateWriteError(err)
	}
	return nil
}

func (s *ProductService) rename(ctx context.Context, req *product.SaveRequest, p *product.Product) error {
	current, err := s.repo.FindBySlug(ctx, req.OriginalSlug)
	if err != nil {
		return translateWriteError(err)
	}
	if err := s.ensureSlugFree(ctx, p.Slug); err != nil {
		return err
	}
	if req.Stock == nil {
		p.Stock = current.Stock
	}
	if err := s.repo.Rename(ctx, req.OriginalSlug, p); err != nil {
		return translateWriteError(err)
	}
	return nil
}

func (s *ProductService) ensureSlugFree(ctx context.Context, slug string) error {
	exists, err := s.repo.Exists(ctx, slug)
	if err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return ErrSlugTaken
	}
	return nil
}

// Delete removes a product. Deleting an unknown slug reports not found.
func (s *ProductService) Delete(ctx context.Context, actor *auth.ResolvedAdmin, slug string) error {
	if actor == nil || actor.Admin == nil {
		return ErrAdminRequired
	}

	slug = strings.TrimSpace(slug)
	if err := s.repo.Delete(ctx, slug); err != nil {
		return translateWriteError(err)
	}

	s.logger.Info("product deleted", zap.String("slug", slug), zap.String("admin", actor.Admin.Username))
	s.publish(wstypes.EventTypeProductDeleted, &wstypes.ProductChangeData{
		Slug:      slug,
		ChangedBy: actor.Admin.Username,
	})
	return nil
}

func (s *ProductService) publish(event wstypes.EventType, change *wstypes.ProductChangeData) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishProductChange(event, change)
}

func previousSlug(req *product.SaveRequest) string {
	if req.OriginalSlug != "" && req.OriginalSlug != req.Slug {
		return req.OriginalSlug
	}
	return ""
}

func translateWriteError(err error) error {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, xerrors.ErrConflict):
		// lost a race against a concurrent create
		return ErrSlugTaken
	default:
		return fmt.Errorf("product write failed: %w", err)
	}
}
