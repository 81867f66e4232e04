package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/postify/postify/internal/cart"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/sales"
	"github.com/postify/postify/internal/shared"
)

type fakeStock struct {
	levels     map[string]int
	decremented map[string]int
}

func (f *fakeStock) Decrement(_ context.Context, _ pgx.Tx, _, productID string, quantity int) error {
	if f.levels[productID] < quantity {
		return fmt.Errorf("%w: product %s", shared.ErrInsufficientStock, productID)
	}
	f.levels[productID] -= quantity
	if f.decremented == nil {
		f.decremented = make(map[string]int)
	}
	f.decremented[productID] += quantity
	return nil
}

type fakeSales struct {
	inserted []sales.Sale
	failWith error
}

func (f *fakeSales) Insert(_ context.Context, _ pgx.Tx, sale sales.Sale) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.inserted = append(f.inserted, sale)
	return nil
}

type fakeCache struct {
	bumps int
}

func (f *fakeCache) Bump(context.Context, string) error {
	f.bumps++
	return nil
}

// rollbackTx mimics a real transaction by undoing recorded effects on
// error.
func newTestService(stockPort *fakeStock, salesPort *fakeSales, cache *fakeCache) *Service {
	runTx := func(_ context.Context, fn func(pgx.Tx) error) error {
		before := make(map[string]int, len(stockPort.levels))
		for k, v := range stockPort.levels {
			before[k] = v
		}
		insertedBefore := len(salesPort.inserted)
		if err := fn(nil); err != nil {
			stockPort.levels = before
			salesPort.inserted = salesPort.inserted[:insertedBefore]
			return err
		}
		return nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, runTx, stockPort, salesPort, cache, nil)
}

func twoLineCart() cart.Cart {
	var c cart.Cart
	_ = c.Add(cart.Line{ProductID: "p1", Name: "Camiseta", Price: 25, CostPrice: 10, Category: "Ropa", Quantity: 2})
	_ = c.Add(cart.Line{ProductID: "p2", Name: "Gorra", Price: 15, CostPrice: 5, Category: "Ropa", Quantity: 1})
	return c
}

func employeeIdentity(pct float64) policy.Identity {
	return policy.Employee("store-1", policy.EmployeeProfile{
		ID:                "emp-1",
		Name:              "Ana",
		Email:             "ana@example.com",
		CommissionPercent: pct,
	})
}

func TestProcessPersistsSaleAndDecrementsStock(t *testing.T) {
	stockPort := &fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}
	salesPort := &fakeSales{}
	cache := &fakeCache{}
	svc := newTestService(stockPort, salesPort, cache)

	sale, err := svc.Process(context.Background(), policy.Owner("store-1", "owner@example.com"), twoLineCart(), sales.PaymentCash)
	require.NoError(t, err)

	require.Equal(t, 65.0, sale.Total)
	require.Equal(t, 3, sale.Items)
	require.Len(t, salesPort.inserted, 1)
	require.Equal(t, 3, stockPort.levels["p1"])
	require.Equal(t, 4, stockPort.levels["p2"])
	require.Equal(t, 1, cache.bumps)
}

func TestProcessRejectsEmptyCart(t *testing.T) {
	svc := newTestService(&fakeStock{levels: map[string]int{}}, &fakeSales{}, &fakeCache{})

	_, err := svc.Process(context.Background(), policy.Owner("store-1", "o@example.com"), cart.Cart{}, sales.PaymentCash)
	require.ErrorIs(t, err, shared.ErrEmptyCart)
}

func TestProcessRejectsUnknownPaymentMethod(t *testing.T) {
	svc := newTestService(&fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}, &fakeSales{}, &fakeCache{})

	_, err := svc.Process(context.Background(), policy.Owner("store-1", "o@example.com"), twoLineCart(), "crypto")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestProcessRollsBackOnInsufficientStock(t *testing.T) {
	stockPort := &fakeStock{levels: map[string]int{"p1": 5, "p2": 0}}
	salesPort := &fakeSales{}
	cache := &fakeCache{}
	svc := newTestService(stockPort, salesPort, cache)

	_, err := svc.Process(context.Background(), policy.Owner("store-1", "o@example.com"), twoLineCart(), sales.PaymentCard)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	// Nothing committed: no sale row, first line's decrement undone.
	require.Empty(t, salesPort.inserted)
	require.Equal(t, 5, stockPort.levels["p1"])
	require.Equal(t, 0, cache.bumps)
}

func TestProcessWrapsStorageFailure(t *testing.T) {
	stockPort := &fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}
	salesPort := &fakeSales{failWith: errors.New("connection reset")}
	svc := newTestService(stockPort, salesPort, &fakeCache{})

	_, err := svc.Process(context.Background(), policy.Owner("store-1", "o@example.com"), twoLineCart(), sales.PaymentCash)
	require.ErrorIs(t, err, shared.ErrPersistence)
	require.Equal(t, 5, stockPort.levels["p1"])
}

func TestProcessAttributesOwnerSale(t *testing.T) {
	salesPort := &fakeSales{}
	svc := newTestService(&fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}, salesPort, &fakeCache{})

	sale, err := svc.Process(context.Background(), policy.Owner("store-1", "o@example.com"), twoLineCart(), sales.PaymentCash)
	require.NoError(t, err)

	require.Nil(t, sale.EmployeeID)
	require.Equal(t, float64(ownerCommissionPercent), sale.CommissionPercent)
	require.Equal(t, 0.0, sales.Commission(sale))
}

func TestProcessAttributesEmployeeSale(t *testing.T) {
	salesPort := &fakeSales{}
	svc := newTestService(&fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}, salesPort, &fakeCache{})

	sale, err := svc.Process(context.Background(), employeeIdentity(20), twoLineCart(), sales.PaymentTransfer)
	require.NoError(t, err)

	require.NotNil(t, sale.EmployeeID)
	require.Equal(t, "emp-1", *sale.EmployeeID)
	require.Equal(t, 20.0, sale.CommissionPercent)
	// Total 65, cost 25, profit 40, 20% commission.
	require.Equal(t, 8.0, sales.Commission(sale))
}

func TestProcessDefaultsEmployeeCommission(t *testing.T) {
	salesPort := &fakeSales{}
	svc := newTestService(&fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}, salesPort, &fakeCache{})

	sale, err := svc.Process(context.Background(), employeeIdentity(0), twoLineCart(), sales.PaymentCash)
	require.NoError(t, err)
	require.Equal(t, 10.0, sale.CommissionPercent)
}

func TestProcessSnapshotsCartLines(t *testing.T) {
	salesPort := &fakeSales{}
	svc := newTestService(&fakeStock{levels: map[string]int{"p1": 5, "p2": 5}}, salesPort, &fakeCache{})

	sale, err := svc.Process(context.Background(), policy.Owner("store-1", "o@example.com"), twoLineCart(), sales.PaymentCash)
	require.NoError(t, err)

	require.Len(t, sale.Lines, 2)
	require.Equal(t, "Camiseta", sale.Lines[0].Name)
	require.Equal(t, 10.0, sale.Lines[0].CostPrice)
	require.Equal(t, "Ropa", sale.Lines[0].Category)
}
