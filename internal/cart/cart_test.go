package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postify/postify/internal/catalog/products"
	"github.com/postify/postify/internal/shared"
)

func line(id string, price float64, qty int) Line {
	return Line{ProductID: id, Name: "p-" + id, Price: price, Quantity: qty}
}

func TestAddMergesSameProduct(t *testing.T) {
	var c Cart

	require.NoError(t, c.Add(line("a", 10, 2)))
	require.NoError(t, c.Add(line("a", 10, 3)))
	require.NoError(t, c.Add(line("b", 5, 1)))

	require.Len(t, c.Lines, 2)
	require.Equal(t, 5, c.Lines[0].Quantity)
}

func TestAddRejectsBadInput(t *testing.T) {
	var c Cart

	require.ErrorIs(t, c.Add(line("", 10, 1)), shared.ErrValidation)
	require.ErrorIs(t, c.Add(line("a", 10, 0)), shared.ErrValidation)
	require.ErrorIs(t, c.Add(line("a", 10, -2)), shared.ErrValidation)
	require.True(t, c.IsEmpty())
}

func TestSubtotalAndItemCount(t *testing.T) {
	var c Cart

	require.NoError(t, c.Add(line("a", 10, 2)))
	require.NoError(t, c.Add(line("b", 2.5, 4)))

	require.Equal(t, 30.0, c.Subtotal())
	require.Equal(t, 6, c.ItemCount())
}

func TestSetQuantityNonPositiveRemovesLine(t *testing.T) {
	var c Cart

	require.NoError(t, c.Add(line("a", 10, 2)))
	require.NoError(t, c.Add(line("b", 5, 1)))

	require.NoError(t, c.SetQuantity("a", 0))
	require.Len(t, c.Lines, 1)
	require.Equal(t, "b", c.Lines[0].ProductID)

	require.NoError(t, c.SetQuantity("b", -1))
	require.True(t, c.IsEmpty())

	require.ErrorIs(t, c.SetQuantity("a", 1), shared.ErrNotFound)
}

func TestRemoveMissingLineIsNoop(t *testing.T) {
	var c Cart

	require.NoError(t, c.Add(line("a", 10, 2)))

	c.Remove("ghost")
	require.Len(t, c.Lines, 1)

	c.Remove("a")
	require.True(t, c.IsEmpty())
	c.Remove("a")
	require.True(t, c.IsEmpty())
}

func TestQuantitiesSnapshot(t *testing.T) {
	var c Cart

	require.NoError(t, c.Add(line("a", 10, 2)))
	require.NoError(t, c.Add(line("b", 5, 3)))

	require.Equal(t, map[string]int{"a": 2, "b": 3}, c.Quantities())
}

type fakeCatalog struct {
	items map[string]products.Product
}

func (f *fakeCatalog) Get(_ context.Context, storeID, id string) (products.Product, error) {
	p, ok := f.items[id]
	if !ok || p.StoreID != storeID {
		return products.Product{}, shared.ErrNotFound
	}
	return p, nil
}

// Reserve mirrors the stock ledger's pre-check against the fake items.
func (f *fakeCatalog) Reserve(_ context.Context, storeID string, quantities map[string]int) error {
	for id, qty := range quantities {
		p, ok := f.items[id]
		if !ok || p.StoreID != storeID {
			return shared.ErrNotFound
		}
		if p.Stock < qty {
			return shared.ErrInsufficientStock
		}
	}
	return nil
}

func TestAddProductSnapshotsCatalogFields(t *testing.T) {
	catalog := &fakeCatalog{items: map[string]products.Product{
		"a": {ID: "a", StoreID: "store-1", Name: "Camiseta", Price: 25, CostPrice: 10, Stock: 5, Category: "Ropa"},
	}}
	svc := NewService(catalog, catalog)

	var c Cart
	require.NoError(t, svc.AddProduct(context.Background(), &c, "store-1", "a", 2))

	require.Len(t, c.Lines, 1)
	require.Equal(t, "Camiseta", c.Lines[0].Name)
	require.Equal(t, 10.0, c.Lines[0].CostPrice)
	require.Equal(t, "Ropa", c.Lines[0].Category)
}

func TestAddProductChecksStockAgainstCart(t *testing.T) {
	catalog := &fakeCatalog{items: map[string]products.Product{
		"a": {ID: "a", StoreID: "store-1", Name: "Camiseta", Price: 25, Stock: 3},
	}}
	svc := NewService(catalog, catalog)

	var c Cart
	require.NoError(t, svc.AddProduct(context.Background(), &c, "store-1", "a", 2))

	// 2 already in cart, only 1 more available.
	err := svc.AddProduct(context.Background(), &c, "store-1", "a", 2)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	require.NoError(t, svc.AddProduct(context.Background(), &c, "store-1", "a", 1))
	require.Equal(t, 3, c.ItemCount())
}

func TestSetQuantityChecksStock(t *testing.T) {
	catalog := &fakeCatalog{items: map[string]products.Product{
		"a": {ID: "a", StoreID: "store-1", Name: "Camiseta", Price: 25, Stock: 3},
	}}
	svc := NewService(catalog, catalog)

	var c Cart
	require.NoError(t, svc.AddProduct(context.Background(), &c, "store-1", "a", 1))

	require.ErrorIs(t, svc.SetQuantity(context.Background(), &c, "store-1", "a", 4), shared.ErrInsufficientStock)
	require.NoError(t, svc.SetQuantity(context.Background(), &c, "store-1", "a", 3))
	require.NoError(t, svc.SetQuantity(context.Background(), &c, "store-1", "a", 0))
	require.True(t, c.IsEmpty())
}

type recordingLedger struct {
	err      error
	requests []map[string]int
}

func (l *recordingLedger) Reserve(_ context.Context, _ string, quantities map[string]int) error {
	l.requests = append(l.requests, quantities)
	return l.err
}

// The ledger, not the catalog snapshot, decides whether a quantity fits.
func TestAddProductDefersToLedger(t *testing.T) {
	catalog := &fakeCatalog{items: map[string]products.Product{
		"a": {ID: "a", StoreID: "store-1", Name: "Camiseta", Price: 25, Stock: 99},
	}}
	ledger := &recordingLedger{err: shared.ErrInsufficientStock}
	svc := NewService(catalog, ledger)

	var c Cart
	err := svc.AddProduct(context.Background(), &c, "store-1", "a", 2)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.True(t, c.IsEmpty())
	require.Equal(t, []map[string]int{{"a": 2}}, ledger.requests)

	ledger.err = nil
	require.NoError(t, svc.AddProduct(context.Background(), &c, "store-1", "a", 2))
	require.NoError(t, svc.AddProduct(context.Background(), &c, "store-1", "a", 3))
	// The second add asks the ledger for the combined line quantity.
	require.Equal(t, map[string]int{"a": 5}, ledger.requests[len(ledger.requests)-1])
}
