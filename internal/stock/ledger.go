// Package stock enforces the inventory invariant: a product's stock
// never goes negative, no matter how many terminals check out at once.
package stock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/shared"
)

// Ledger performs guarded stock movements against the products table.
type Ledger struct {
	db *pgxpool.Pool
}

func NewLedger(db *pgxpool.Pool) *Ledger {
	return &Ledger{db: db}
}

// Available reports the current stock level for a product. It is a
// read-only pre-check; checkout still re-validates under the guarded
// decrement.
func (l *Ledger) Available(ctx context.Context, storeID, productID string) (int, error) {
	var stock int
	err := l.db.QueryRow(ctx,
		`SELECT stock FROM products WHERE store_id = $1 AND id = $2`, storeID, productID,
	).Scan(&stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}

// Reserve verifies that each requested quantity is currently in stock.
// Quantities are keyed by product id.
func (l *Ledger) Reserve(ctx context.Context, storeID string, quantities map[string]int) error {
	for productID, qty := range quantities {
		available, err := l.Available(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if available < qty {
			return fmt.Errorf("%w: product %s has %d left, %d requested",
				shared.ErrInsufficientStock, productID, available, qty)
		}
	}
	return nil
}

// Decrement subtracts quantity inside the caller's transaction. The
// WHERE clause is the invariant: when nothing matches, stock would have
// gone negative and the whole transaction must roll back.
func (l *Ledger) Decrement(ctx context.Context, tx pgx.Tx, storeID, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	tag, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $3, updated_at = now()
		 WHERE store_id = $1 AND id = $2 AND stock >= $3`,
		storeID, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", shared.ErrInsufficientStock, productID)
	}
	return nil
}

// Restock adds quantity back, used when a sale is voided.
func (l *Ledger) Restock(ctx context.Context, tx pgx.Tx, storeID, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	_, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock + $3, updated_at = now()
		 WHERE store_id = $1 AND id = $2`,
		storeID, productID, quantity)
	return err
}
