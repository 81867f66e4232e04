package categories

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

func (s *Service) List(ctx context.Context, storeID string) ([]Category, error) {
	return s.repo.List(ctx, storeID)
}

func (s *Service) Create(ctx context.Context, storeID, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, Category{
		ID:      uuid.NewString(),
		StoreID: storeID,
		Name:    name,
	})
}

func (s *Service) Rename(ctx context.Context, storeID, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	return s.repo.Rename(ctx, storeID, id, name)
}

func (s *Service) Delete(ctx context.Context, storeID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: category id is required", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, storeID, id)
}
