// Package sales stores completed sales and computes seller commission.
// A sale is written once at checkout and never updated; its lines are a
// snapshot immune to later catalog edits.
package sales

import (
	"time"
)

// PaymentMethod is the closed set of ways a sale can be paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the value is one of the known methods.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// SaleLine is the frozen copy of a cart line at the moment of checkout.
type SaleLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Category  string  `json:"category"`
}

// Sale is one completed checkout.
type Sale struct {
	ID            string
	StoreID       string
	Lines         []SaleLine
	Total         float64
	Items         int
	PaymentMethod PaymentMethod
	// EmployeeID and EmployeeName are nil for sales rung up by the
	// owner.
	EmployeeID        *string
	EmployeeName      *string
	CommissionPercent float64
	CreatedAt         time.Time
}

// TotalCost sums the snapshot cost of every line.
func (s Sale) TotalCost() float64 {
	var total float64
	for _, line := range s.Lines {
		total += line.CostPrice * float64(line.Quantity)
	}
	return total
}

// NetProfit is revenue minus snapshot cost.
func (s Sale) NetProfit() float64 {
	return s.Total - s.TotalCost()
}

// ListFilters narrows sale history queries.
type ListFilters struct {
	From          time.Time
	To            time.Time
	EmployeeID    string
	PaymentMethod PaymentMethod
	Page          int
	PerPage       int
}
