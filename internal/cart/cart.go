// Package cart models the in-progress order a terminal builds before
// checkout. The cart lives in the session, not the database: it only
// becomes durable when checkout turns it into a sale.
package cart

import (
	"fmt"

	"github.com/postify/postify/internal/shared"
)

// Line is one product entry in the cart. Price and cost are captured at
// the moment of adding so later catalog edits do not reprice the cart.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
}

// Total returns the line's extended price.
func (l Line) Total() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is an ordered list of lines. The zero value is an empty cart.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add appends quantity of a product, merging with an existing line for
// the same product.
func (c *Cart) Add(line Line) error {
	if line.ProductID == "" {
		return fmt.Errorf("%w: product id is required", shared.ErrValidation)
	}
	if line.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	for i, existing := range c.Lines {
		if existing.ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// SetQuantity replaces a line's quantity. Any quantity at or below
// zero removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		c.removeLine(productID)
		return nil
	}
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines[i].Quantity = quantity
			return nil
		}
	}
	return shared.ErrNotFound
}

// Remove deletes a line unconditionally. Removing a product that is
// not in the cart is a no-op.
func (c *Cart) Remove(productID string) {
	c.removeLine(productID)
}

func (c *Cart) removeLine(productID string) {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal sums every line's extended price.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Total()
	}
	return total
}

// TotalCost sums every line's extended cost, used for profit figures.
func (c *Cart) TotalCost() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.CostPrice * float64(line.Quantity)
	}
	return total
}

// ItemCount sums line quantities, the badge number on the cart icon.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// Quantities returns quantity keyed by product id for stock checks.
func (c *Cart) Quantities() map[string]int {
	out := make(map[string]int, len(c.Lines))
	for _, line := range c.Lines {
		out[line.ProductID] = line.Quantity
	}
	return out
}
