// internal/domain/product/dto.go
package product

import (
	"strconv"
	"strings"
)

// SearchFilters are the raw query parameters of a product search.
type SearchFilters struct {
	Search string `form:"search"`
	Status string `form:"status"`
	Page   string `form:"page"`
}

// Query is a normalised search ready for the repository.
type Query struct {
	Search string
	Status StockStatus
	Page   int
}

// MaxPage is the highest page a search accepts. Anything above it is
// treated like any other invalid page.
const MaxPage = 1 << 20

// Normalize applies the defaults: blank search, status all, page 1 for
// missing or invalid input.
func (f SearchFilters) Normalize() Query {
	page, err := strconv.Atoi(strings.TrimSpace(f.Page))
	if err != nil || page < 1 || page > MaxPage {
		page = 1
	}
	return Query{
		Search: strings.TrimSpace(f.Search),
		Status: ParseStatusFilter(strings.TrimSpace(f.Status)),
		Page:   page,
	}
}

type SearchResult struct {
	Products   []ListedProduct `json:"products"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

// SaveRequest creates a product when OriginalSlug is empty and updates (or
// renames) the product identified by OriginalSlug otherwise.
type SaveRequest struct {
	Name            string `form:"name" json:"name" binding:"required"`
	Slug            string `form:"slug" json:"slug" binding:"required"`
	Description     string `form:"description" json:"description" binding:"required"`
	Price           string `form:"price" json:"price" binding:"required,numeric"`
	SubcategorySlug string `form:"subcategory_slug" json:"subcategory_slug" binding:"required"`
	ImageURL        string `form:"image_url" json:"image_url"`
	Stock           *int   `form:"stock" json:"stock" binding:"omitempty,min=0"`
	OriginalSlug    string `form:"original_slug" json:"original_slug"`
}

func (r *SaveRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Description = strings.TrimSpace(r.Description)
	r.Price = strings.TrimSpace(r.Price)
	r.SubcategorySlug = strings.TrimSpace(r.SubcategorySlug)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.OriginalSlug = strings.TrimSpace(r.OriginalSlug)
}

// Complete reports whether every required field is present.
func (r *SaveRequest) Complete() bool {
	return r.Name != "" && r.Slug != "" && r.Description != "" && r.Price != "" && r.SubcategorySlug != ""
}

// ToProduct builds the row to persist. Stock defaults to zero on create.
func (r *SaveRequest) ToProduct() *Product {
	p := &Product{
		Slug:            r.Slug,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		SubcategorySlug: r.SubcategorySlug,
	}
	if r.ImageURL != "" {
		url := r.ImageURL
		p.ImageURL = &url
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	return p
}
