// Package analytics builds the dashboard figures from the sales table,
// serving them out of a versioned Redis cache.
package analytics

import "time"

// DayTotals summarises one day of selling.
type DayTotals struct {
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
	Items        int     `json:"items"`
	NetProfit    float64 `json:"net_profit"`
}

// SeriesPoint is one day in the weekly revenue series.
type SeriesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// TopProduct ranks a product by revenue over the window.
type TopProduct struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// PaymentSlice is one payment method's share of revenue.
type PaymentSlice struct {
	Method  string  `json:"method"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// RecentSale is the compact sale row the dashboard lists.
type RecentSale struct {
	ID           string    `json:"id"`
	Total        float64   `json:"total"`
	Items        int       `json:"items"`
	Method       string    `json:"method"`
	EmployeeName *string   `json:"employee_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Dashboard is the full payload the dashboard screen renders.
type Dashboard struct {
	Today       DayTotals      `json:"today"`
	Yesterday   DayTotals      `json:"yesterday"`
	Weekly      []SeriesPoint  `json:"weekly"`
	TopProducts []TopProduct   `json:"top_products"`
	Payments    []PaymentSlice `json:"payments"`
	Recent      []RecentSale   `json:"recent"`
	GeneratedAt time.Time      `json:"generated_at"`
}
