package products

import "time"

type ProductForm struct {
	Name      string            `json:"name" validate:"required"`
	Price     float64           `json:"price" validate:"gte=0"`
	CostPrice float64           `json:"cost_price" validate:"gte=0"`
	Stock     int               `json:"stock" validate:"gte=0"`
	Category  string            `json:"category" validate:"required"`
	Barcode   string            `json:"barcode"`
	Variants  map[string]string `json:"variants"`
}

type ProductResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Price     float64           `json:"price"`
	CostPrice float64           `json:"cost_price"`
	Stock     int               `json:"stock"`
	Category  string            `json:"category"`
	Barcode   string            `json:"barcode,omitempty"`
	Variants  map[string]string `json:"variants,omitempty"`
	LowStock  bool              `json:"low_stock"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type ListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
}

func toResponse(p Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CostPrice: p.CostPrice,
		Stock:     p.Stock,
		Category:  p.Category,
		Barcode:   p.Barcode,
		Variants:  p.Variants,
		LowStock:  p.LowStock(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
