package categories

import "time"

// Category groups products on the sales and inventory screens. Names
// are unique per store, case-insensitively.
type Category struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
