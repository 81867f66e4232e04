package products

import (
	"fmt"
	"strings"

	"github.com/postify/postify/internal/shared"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	if p.CostPrice < 0 {
		return fmt.Errorf("%w: cost price must not be negative", shared.ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", shared.ErrValidation)
	}
	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("%w: category is required", shared.ErrValidation)
	}
	return nil
}
