package categories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/shared"
)

type Repository interface {
	List(ctx context.Context, storeID string) ([]Category, error)
	Get(ctx context.Context, storeID, id string) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Rename(ctx context.Context, storeID, id, name string) error
	Delete(ctx context.Context, storeID, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, storeID string) ([]Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, store_id, name, created_at FROM categories WHERE store_id = $1 ORDER BY name ASC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id string) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx,
		`SELECT id, store_id, name, created_at FROM categories WHERE store_id = $1 AND id = $2`, storeID, id,
	).Scan(&c.ID, &c.StoreID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, store_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		category.ID, category.StoreID, category.Name, now)
	if err != nil {
		return Category{}, translateUnique(err)
	}
	category.CreatedAt = now
	return category, nil
}

func (r *repository) Rename(ctx context.Context, storeID, id, name string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $3 WHERE store_id = $1 AND id = $2`, storeID, id, name)
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, storeID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}
