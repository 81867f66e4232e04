package cart

import (
	"context"
	"fmt"

	"github.com/postify/postify/internal/catalog/products"
	"github.com/postify/postify/internal/shared"
)

// ProductSource resolves catalog products when lines are added.
type ProductSource interface {
	Get(ctx context.Context, storeID, id string) (products.Product, error)
}

// StockChecker validates requested quantities against the ledger while
// the cart is being built.
type StockChecker interface {
	Reserve(ctx context.Context, storeID string, quantities map[string]int) error
}

// Service applies cart mutations with catalog snapshots and ledger
// pre-checks. The authoritative stock check still happens at checkout.
type Service struct {
	catalog ProductSource
	stock   StockChecker
}

func NewService(catalog ProductSource, stock StockChecker) *Service {
	return &Service{catalog: catalog, stock: stock}
}

// AddProduct snapshots the product into a line and merges it into the
// cart, refusing quantities the current stock cannot cover.
func (s *Service) AddProduct(ctx context.Context, c *Cart, storeID, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}

	product, err := s.catalog.Get(ctx, storeID, productID)
	if err != nil {
		return err
	}

	inCart := 0
	for _, line := range c.Lines {
		if line.ProductID == productID {
			inCart = line.Quantity
		}
	}
	if err := s.stock.Reserve(ctx, storeID, map[string]int{productID: inCart + quantity}); err != nil {
		return err
	}

	return c.Add(Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		CostPrice: product.CostPrice,
		Category:  product.Category,
		Quantity:  quantity,
	})
}

// SetQuantity adjusts a line, re-checking the ledger when raising it.
func (s *Service) SetQuantity(ctx context.Context, c *Cart, storeID, productID string, quantity int) error {
	if quantity > 0 {
		if err := s.stock.Reserve(ctx, storeID, map[string]int{productID: quantity}); err != nil {
			return err
		}
	}
	return c.SetQuantity(productID, quantity)
}
