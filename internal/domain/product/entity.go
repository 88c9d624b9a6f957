// internal/domain/product/entity.go
package product

import (
	"fmt"
	"time"
)

type StockStatus string

const (
	StatusInStock    StockStatus = "in"
	StatusLowStock   StockStatus = "low"
	StatusOutOfStock StockStatus = "out"

	// StatusAll is the filter value that disables the status predicate.
	StatusAll StockStatus = "all"
)

// LowStockThreshold is the first stock count considered comfortably in stock.
const LowStockThreshold = 20

// DeriveStatus maps a stock count onto its display status.
func DeriveStatus(stock int) StockStatus {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ParseStatusFilter accepts in|low|out|all; anything else means all.
func ParseStatusFilter(raw string) StockStatus {
	switch StockStatus(raw) {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return StockStatus(raw)
	default:
		return StatusAll
	}
}

type Product struct {
	Slug            string    `json:"slug" db:"slug"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Price           string    `json:"price" db:"price"`
	SubcategorySlug string    `json:"subcategory_slug" db:"subcategory_slug"`
	ImageURL        *string   `json:"image_url" db:"image_url"`
	Stock           int       `json:"stock" db:"stock"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Product) Status() StockStatus {
	return DeriveStatus(p.Stock)
}

// ListedProduct is a search row enriched for the admin table.
type ListedProduct struct {
	Product
	ProductID string      `json:"productId"`
	Status    StockStatus `json:"status"`
}

// DisplayID formats the positional identifier shown in listings. It is
// derived from the row's position in the result, not from stored data.
func DisplayID(position int) string {
	return fmt.Sprintf("PRD-%04d", position)
}

// StatusCounts is the catalogue summary shown on the dashboard.
type StatusCounts struct {
	Total      int64 `json:"total"`
	InStock    int64 `json:"in_stock"`
	LowStock   int64 `json:"low_stock"`
	OutOfStock int64 `json:"out_of_stock"`
}
