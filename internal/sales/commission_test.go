package sales

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func employeeSale(price, cost, pct float64) Sale {
	id := "emp-1"
	name := "Ana"
	return Sale{
		ID:                "sale-1",
		StoreID:           "store-1",
		Lines:             []SaleLine{{ProductID: "p1", Name: "Camiseta", Quantity: 1, Price: price, CostPrice: cost}},
		Total:             price,
		Items:             1,
		PaymentMethod:     PaymentCash,
		EmployeeID:        &id,
		EmployeeName:      &name,
		CommissionPercent: pct,
	}
}

func TestCommissionPercentOfNetProfit(t *testing.T) {
	// Sold at 100, cost 60, 20% commission on the 40 profit.
	require.Equal(t, 8.0, Commission(employeeSale(100, 60, 20)))
}

func TestCommissionZeroWhenUnprofitable(t *testing.T) {
	require.Equal(t, 0.0, Commission(employeeSale(50, 60, 20)))
	require.Equal(t, 0.0, Commission(employeeSale(60, 60, 20)))
}

func TestCommissionZeroForOwnerSales(t *testing.T) {
	s := employeeSale(100, 60, 100)
	s.EmployeeID = nil
	s.EmployeeName = nil
	require.Equal(t, 0.0, Commission(s))
}

func TestCommissionDefaultsRate(t *testing.T) {
	// Stored rate of zero falls back to 10%.
	require.Equal(t, 4.0, Commission(employeeSale(100, 60, 0)))
	require.Equal(t, 4.0, Commission(employeeSale(100, 60, -5)))
}

func TestCommissionMultiLineSale(t *testing.T) {
	id := "emp-1"
	s := Sale{
		Lines: []SaleLine{
			{ProductID: "p1", Quantity: 2, Price: 25, CostPrice: 10},
			{ProductID: "p2", Quantity: 1, Price: 50, CostPrice: 30},
		},
		Total:             100,
		EmployeeID:        &id,
		CommissionPercent: 10,
	}
	// Cost 50, profit 50, 10% commission.
	require.Equal(t, 5.0, Commission(s))
}
