package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Get(ctx context.Context, storeID string) (StoreSettings, error)
	Save(ctx context.Context, settings StoreSettings) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Get returns the store's settings row, or a zero-value document when
// the store has never saved one.
func (r *repository) Get(ctx context.Context, storeID string) (StoreSettings, error) {
	var s StoreSettings
	var variants []byte
	err := r.db.QueryRow(ctx,
		`SELECT store_id, store_name, currency, variants, updated_at FROM store_settings WHERE store_id = $1`,
		storeID,
	).Scan(&s.StoreID, &s.StoreName, &s.Currency, &variants, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoreSettings{StoreID: storeID, Variants: []Variant{}}, nil
	}
	if err != nil {
		return StoreSettings{}, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &s.Variants); err != nil {
			return StoreSettings{}, err
		}
	}
	return s, nil
}

func (r *repository) Save(ctx context.Context, settings StoreSettings) error {
	variants, err := json.Marshal(settings.Variants)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO store_settings (store_id, store_name, currency, variants, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (store_id) DO UPDATE SET
		   store_name = EXCLUDED.store_name,
		   currency = EXCLUDED.currency,
		   variants = EXCLUDED.variants,
		   updated_at = EXCLUDED.updated_at`,
		settings.StoreID, settings.StoreName, settings.Currency, variants, time.Now().UTC())
	return err
}
