package sales

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

type fakeRepo struct {
	items map[string]Sale
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Sale)}
}

func (f *fakeRepo) Insert(_ context.Context, _ pgx.Tx, sale Sale) error {
	f.items[sale.ID] = sale
	return nil
}

func (f *fakeRepo) List(_ context.Context, storeID string, filters ListFilters) ([]Sale, int, error) {
	var out []Sale
	for _, s := range f.items {
		if s.StoreID != storeID {
			continue
		}
		if filters.PaymentMethod != "" && s.PaymentMethod != filters.PaymentMethod {
			continue
		}
		if filters.EmployeeID != "" && (s.EmployeeID == nil || *s.EmployeeID != filters.EmployeeID) {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Get(_ context.Context, storeID, id string) (Sale, error) {
	s, ok := f.items[id]
	if !ok || s.StoreID != storeID {
		return Sale{}, shared.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) Delete(_ context.Context, _ pgx.Tx, storeID, id string) (Sale, error) {
	s, ok := f.items[id]
	if !ok || s.StoreID != storeID {
		return Sale{}, shared.ErrNotFound
	}
	delete(f.items, id)
	return s, nil
}

type fakeStock struct {
	restocked map[string]int
}

func (f *fakeStock) Restock(_ context.Context, _ pgx.Tx, _, productID string, quantity int) error {
	if f.restocked == nil {
		f.restocked = make(map[string]int)
	}
	f.restocked[productID] += quantity
	return nil
}

type fakeCache struct {
	bumps int
}

func (f *fakeCache) Bump(context.Context, string) error {
	f.bumps++
	return nil
}

func passthroughTx(_ context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func newTestService(repo *fakeRepo, stockPort *fakeStock, cache *fakeCache) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, passthroughTx, stockPort, cache, nil)
}

func storedSale(id string) Sale {
	empID := "emp-1"
	name := "Ana"
	return Sale{
		ID:      id,
		StoreID: "store-1",
		Lines: []SaleLine{
			{ProductID: "p1", Name: "Camiseta", Quantity: 2, Price: 25, CostPrice: 10, Category: "Ropa"},
		},
		Total:             50,
		Items:             2,
		PaymentMethod:     PaymentCash,
		EmployeeID:        &empID,
		EmployeeName:      &name,
		CommissionPercent: 20,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestListComputesCommission(t *testing.T) {
	repo := newFakeRepo()
	repo.items["s1"] = storedSale("s1")
	svc := newTestService(repo, &fakeStock{}, &fakeCache{})

	items, total, err := svc.List(context.Background(), "store-1", ListFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	// Profit 30, 20% commission.
	require.Equal(t, 6.0, items[0].Commission)
}

func TestVoidRestocksLines(t *testing.T) {
	repo := newFakeRepo()
	repo.items["s1"] = storedSale("s1")
	stockPort := &fakeStock{}
	cache := &fakeCache{}
	svc := newTestService(repo, stockPort, cache)

	err := svc.Void(context.Background(), policy.Owner("store-1", "owner@example.com"), "s1")
	require.NoError(t, err)
	require.Equal(t, 2, stockPort.restocked["p1"])
	require.Equal(t, 1, cache.bumps)

	_, err = svc.Get(context.Background(), "store-1", "s1")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVoidMissingSale(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStock{}, &fakeCache{})

	err := svc.Void(context.Background(), policy.Owner("store-1", "owner@example.com"), "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSnapshotSurvivesCatalogDrift(t *testing.T) {
	// A sale keeps the price and cost captured at checkout even if the
	// figures change afterwards in the catalog; commission is derived
	// from the snapshot alone.
	s := storedSale("s1")
	require.Equal(t, 20.0, s.TotalCost())
	require.Equal(t, 30.0, s.NetProfit())
	require.Equal(t, 6.0, Commission(s))
}
