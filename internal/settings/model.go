// Package settings holds the per-store configuration document: store
// profile fields plus the variant definitions products can be tagged
// with (size, colour and so on).
package settings

import "time"

// VariantOption is one selectable value of a variant, e.g. "M" for size.
type VariantOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Variant is a named axis of product variation with its options.
type Variant struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Options []VariantOption `json:"options"`
}

// StoreSettings is the single configuration row for a store.
type StoreSettings struct {
	StoreID   string    `json:"store_id"`
	StoreName string    `json:"store_name"`
	Currency  string    `json:"currency"`
	Variants  []Variant `json:"variants"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindVariant returns the variant with the given id.
func (s StoreSettings) FindVariant(id string) (Variant, bool) {
	for _, v := range s.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
