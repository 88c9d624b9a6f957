// internal/service/cart/cart.go
package cart

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/vishnupprajapat/nextfast/internal/domain/cart"
	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	xerrors "github.com/vishnupprajapat/nextfast/internal/pkg/errors"

	"go.uber.org/zap"
)

var ErrMissingSlug = fmt.Errorf("%w: productSlug is required", xerrors.ErrInvalidInput)

type CartService struct {
	products product.Repository
	logger   *zap.Logger
}

func NewCartService(products product.Repository, logger *zap.Logger) *CartService {
	return &CartService{products: products, logger: logger}
}

// Add increments slug in c. Stock is not checked and there is no cap.
func (s *CartService) Add(c cart.Cart, slug string) (cart.Cart, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return c, ErrMissingSlug
	}
	return c.Add(slug), nil
}

// Remove drops slug from c.
func (s *CartService) Remove(c cart.Cart, slug string) (cart.Cart, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return c, ErrMissingSlug
	}
	return c.Remove(slug), nil
}

// View joins the cart with current product data in cart order. Lines whose
// product has since been deleted are left out.
func (s *CartService) View(ctx context.Context, c cart.Cart) (*cart.View, error) {
	view := &cart.View{Items: []cart.Line{}, Total: "0.00"}
	if len(c) == 0 {
		return view, nil
	}

	rows, err := s.products.FindBySlugs(ctx, c.Slugs())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	bySlug := make(map[string]product.Product, len(rows))
	for _, p := range rows {
		bySlug[p.Slug] = p
	}

	total := new(big.Rat)
	for _, item := range c {
		p, ok := bySlug[item.ProductSlug]
		if !ok {
			s.logger.Debug("cart item without product", zap.String("slug", item.ProductSlug))
			continue
		}

		price, ok := new(big.Rat).SetString(p.Price)
		if !ok {
			s.logger.Warn("product has unparsable price", zap.String("slug", p.Slug), zap.String("price", p.Price))
			price = new(big.Rat)
		}
		line := new(big.Rat).Mul(price, big.NewRat(int64(item.Quantity), 1))
		total.Add(total, line)

		view.Items = append(view.Items, cart.Line{
			Item:      item,
			Product:   p,
			LineTotal: line.FloatString(2),
		})
		view.ItemCount += item.Quantity
	}
	view.Total = total.FloatString(2)

	return view, nil
}
