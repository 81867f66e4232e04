package categories

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/shared"
)

type fakeRepo struct {
	items map[string]Category
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Category)}
}

func (f *fakeRepo) List(_ context.Context, storeID string) ([]Category, error) {
	var out []Category
	for _, c := range f.items {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, storeID, id string) (Category, error) {
	c, ok := f.items[id]
	if !ok || c.StoreID != storeID {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) Create(_ context.Context, category Category) (Category, error) {
	for _, c := range f.items {
		if c.StoreID == category.StoreID && strings.EqualFold(c.Name, category.Name) {
			return Category{}, httpx.ErrDuplicate
		}
	}
	category.CreatedAt = time.Now()
	f.items[category.ID] = category
	return category, nil
}

func (f *fakeRepo) Rename(_ context.Context, storeID, id, name string) error {
	c, ok := f.items[id]
	if !ok || c.StoreID != storeID {
		return shared.ErrNotFound
	}
	c.Name = name
	f.items[id] = c
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, storeID, id string) error {
	c, ok := f.items[id]
	if !ok || c.StoreID != storeID {
		return shared.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func TestCreateTrimsAndValidates(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), "store-1", "  Bebidas  ")
	require.NoError(t, err)
	require.Equal(t, "Bebidas", created.Name)
	require.NotEmpty(t, created.ID)

	_, err = svc.Create(context.Background(), "store-1", "   ")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), "store-1", "Bebidas")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "store-1", "bebidas")
	require.ErrorIs(t, err, httpx.ErrDuplicate)

	// Same name in another store is fine.
	_, err = svc.Create(context.Background(), "store-2", "Bebidas")
	require.NoError(t, err)
}

func TestRenameMissingCategory(t *testing.T) {
	svc := NewService(newFakeRepo())

	err := svc.Rename(context.Background(), "store-1", "nope", "Snacks")
	require.ErrorIs(t, err, shared.ErrNotFound)
}
