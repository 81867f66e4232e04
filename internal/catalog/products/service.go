package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/postify/postify/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, storeID string, filters ListFilters) ([]Product, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	return s.repo.List(ctx, storeID, filters)
}

func (s *Service) Get(ctx context.Context, storeID, id string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id is required", shared.ErrValidation)
	}
	return s.repo.Get(ctx, storeID, id)
}

// Lookup resolves a product by exact barcode match.
func (s *Service) Lookup(ctx context.Context, storeID, barcode string) (Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Product{}, fmt.Errorf("%w: barcode is required", shared.ErrValidation)
	}
	return s.repo.GetByBarcode(ctx, storeID, barcode)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, product Product) error {
	if product.ID == "" {
		return fmt.Errorf("%w: product id is required", shared.ErrValidation)
	}
	if err := s.validate(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

func (s *Service) Delete(ctx context.Context, storeID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id is required", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, storeID, id)
}

func (s *Service) Valuation(ctx context.Context, storeID string) (Valuation, error) {
	v, err := s.repo.Valuation(ctx, storeID)
	if err != nil {
		return Valuation{}, err
	}
	v.FormattedCost = shared.FormatPrice(v.TotalCost)
	v.FormattedSale = shared.FormatPrice(v.TotalSale)
	return v, nil
}
