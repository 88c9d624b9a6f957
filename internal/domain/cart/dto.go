package cart

import "github.com/vishnupprajapat/nextfast/internal/domain/product"

// Line is a cart item joined with its product.
type Line struct {
	Item
	Product   product.Product `json:"product"`
	LineTotal string          `json:"lineTotal"`
}

// View is the hydrated cart returned to the storefront.
type View struct {
	Items     []Line `json:"items"`
	ItemCount int    `json:"itemCount"`
	Total     string `json:"total"`
}

// ItemRequest is the form posted by add/remove buttons.
type ItemRequest struct {
	ProductSlug string `form:"productSlug" json:"productSlug"`
}
