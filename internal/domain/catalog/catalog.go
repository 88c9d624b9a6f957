// internal/domain/catalog/catalog.go
package catalog

import (
	"context"

	"github.com/vishnupprajapat/nextfast/internal/domain/product"
)

// Collection is the top level of the storefront tree.
type Collection struct {
	ID         int        `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Slug       string     `json:"slug" db:"slug"`
	Categories []Category `json:"categories"`
}

type Category struct {
	Slug           string  `json:"slug" db:"slug"`
	Name           string  `json:"name" db:"name"`
	CollectionID   int     `json:"collection_id" db:"collection_id"`
	CollectionName string  `json:"collection_name,omitempty"`
	ImageURL       *string `json:"image_url" db:"image_url"`
}

type Subcategory struct {
	Slug         string  `json:"slug" db:"slug"`
	Name         string  `json:"name" db:"name"`
	CategorySlug string  `json:"category_slug" db:"category_slug"`
	ImageURL     *string `json:"image_url" db:"image_url"`
}

// Home is the storefront landing view.
type Home struct {
	Collections  []Collection `json:"collections"`
	ProductCount int64        `json:"productCount"`
}

// SubcategoryProducts is one subcategory with everything filed under it.
type SubcategoryProducts struct {
	Subcategory Subcategory       `json:"subcategory"`
	Products    []product.Product `json:"products"`
	Count       int64             `json:"count"`
}

type Repository interface {
	ListCollections(ctx context.Context) ([]Collection, error)
	ListCategories(ctx context.Context) ([]Category, error)
	FindSubcategory(ctx context.Context, slug string) (*Subcategory, error)
	ProductsBySubcategory(ctx context.Context, slug string) ([]product.Product, int64, error)
}
