package settings

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

func (s *Service) Get(ctx context.Context, storeID string) (StoreSettings, error) {
	return s.repo.Get(ctx, storeID)
}

// Update replaces the profile fields, leaving variants untouched.
func (s *Service) Update(ctx context.Context, storeID, storeName, currency string) (StoreSettings, error) {
	current, err := s.repo.Get(ctx, storeID)
	if err != nil {
		return StoreSettings{}, err
	}
	current.StoreName = strings.TrimSpace(storeName)
	current.Currency = strings.TrimSpace(currency)
	if err := s.repo.Save(ctx, current); err != nil {
		return StoreSettings{}, err
	}
	return current, nil
}

// AddVariant appends a new variant axis with the given option names.
func (s *Service) AddVariant(ctx context.Context, storeID, name string, options []string) (StoreSettings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StoreSettings{}, fmt.Errorf("%w: variant name is required", shared.ErrValidation)
	}

	current, err := s.repo.Get(ctx, storeID)
	if err != nil {
		return StoreSettings{}, err
	}
	for _, v := range current.Variants {
		if strings.EqualFold(v.Name, name) {
			return StoreSettings{}, fmt.Errorf("%w: variant %q already exists", shared.ErrValidation, name)
		}
	}

	variant := Variant{ID: uuid.NewString(), Name: name, Options: []VariantOption{}}
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		variant.Options = append(variant.Options, VariantOption{ID: uuid.NewString(), Name: opt})
	}

	current.Variants = append(current.Variants, variant)
	if err := s.repo.Save(ctx, current); err != nil {
		return StoreSettings{}, err
	}
	return current, nil
}

// AddOption appends an option to an existing variant.
func (s *Service) AddOption(ctx context.Context, storeID, variantID, optionName string) (StoreSettings, error) {
	optionName = strings.TrimSpace(optionName)
	if optionName == "" {
		return StoreSettings{}, fmt.Errorf("%w: option name is required", shared.ErrValidation)
	}

	current, err := s.repo.Get(ctx, storeID)
	if err != nil {
		return StoreSettings{}, err
	}

	found := false
	for i, v := range current.Variants {
		if v.ID != variantID {
			continue
		}
		for _, opt := range v.Options {
			if strings.EqualFold(opt.Name, optionName) {
				return StoreSettings{}, fmt.Errorf("%w: option %q already exists", shared.ErrValidation, optionName)
			}
		}
		current.Variants[i].Options = append(v.Options, VariantOption{ID: uuid.NewString(), Name: optionName})
		found = true
		break
	}
	if !found {
		return StoreSettings{}, shared.ErrNotFound
	}

	if err := s.repo.Save(ctx, current); err != nil {
		return StoreSettings{}, err
	}
	return current, nil
}

// RemoveVariant deletes a variant axis and all its options.
func (s *Service) RemoveVariant(ctx context.Context, storeID, variantID string) (StoreSettings, error) {
	current, err := s.repo.Get(ctx, storeID)
	if err != nil {
		return StoreSettings{}, err
	}

	kept := current.Variants[:0]
	found := false
	for _, v := range current.Variants {
		if v.ID == variantID {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return StoreSettings{}, shared.ErrNotFound
	}
	current.Variants = kept

	if err := s.repo.Save(ctx, current); err != nil {
		return StoreSettings{}, err
	}
	return current, nil
}
