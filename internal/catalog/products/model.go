package products

import (
	"time"
)

// LowStockThreshold is the quantity under which a product is flagged on
// the inventory screen.
const LowStockThreshold = 4

// Product represents an item offered for sale by one store.
type Product struct {
	ID        string            `json:"id"`
	StoreID   string            `json:"store_id"`
	Name      string            `json:"name"`
	Price     float64           `json:"price"`
	CostPrice float64           `json:"cost_price"`
	Stock     int               `json:"stock"`
	Category  string            `json:"category"`
	Barcode   string            `json:"barcode,omitempty"`
	Variants  map[string]string `json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// LowStock reports whether the product is below the alert threshold.
func (p Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search   string
	Category string
	// VariantID/VariantOption filter products tagged with a variant option.
	VariantID     string
	VariantOption string
	LowStockOnly  bool
	Page          int
	PerPage       int
}

// Valuation summarises the inventory header stats.
type Valuation struct {
	Products      int     `json:"products"`
	LowStock      int     `json:"low_stock"`
	TotalCost     float64 `json:"total_cost"`
	TotalSale     float64 `json:"total_sale"`
	FormattedCost string  `json:"formatted_cost"`
	FormattedSale string  `json:"formatted_sale"`
}
