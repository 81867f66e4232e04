package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner runs a function inside a transaction. Services depend on
// this type so tests can substitute a runner that skips the database.
type TxRunner func(ctx context.Context, fn func(pgx.Tx) error) error

// Runner binds WithTx to a pool.
func Runner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(pgx.Tx) error) error {
		return WithTx(ctx, pool, fn)
	}
}

// WithTx executes a function within a transaction using the RepeatableRead
// isolation level. Checkout relies on this level so a concurrent terminal
// cannot decrement the same stock row past zero.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}
