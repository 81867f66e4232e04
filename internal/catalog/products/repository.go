package products

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/shared"
)

// Repository defines product persistence operations.
type Repository interface {
	List(ctx context.Context, storeID string, filters ListFilters) ([]Product, int, error)
	Get(ctx context.Context, storeID, id string) (Product, error)
	GetByBarcode(ctx context.Context, storeID, barcode string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, storeID, id string) error
	Valuation(ctx context.Context, storeID string) (Valuation, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, store_id, name, price, cost_price, stock, category, barcode, variants, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var variants []byte
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Price, &p.CostPrice, &p.Stock, &p.Category, &p.Barcode, &variants, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, storeID string, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE store_id = $1`
	args := []interface{}{storeID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		n := strconv.Itoa(argCount)
		where += ` AND (name ILIKE $` + n + ` OR barcode = $` + strconv.Itoa(argCount+1) + `)`
		args = append(args, "%"+filters.Search+"%", filters.Search)
		argCount++
	}
	if filters.Category != "" {
		argCount++
		where += ` AND category = $` + strconv.Itoa(argCount)
		args = append(args, filters.Category)
	}
	if filters.VariantID != "" && filters.VariantOption != "" {
		argCount++
		where += ` AND variants->>$` + strconv.Itoa(argCount)
		argCount++
		where += ` = $` + strconv.Itoa(argCount)
		args = append(args, filters.VariantID, filters.VariantOption)
	}
	if filters.LowStockOnly {
		where += ` AND stock < ` + strconv.Itoa(LowStockThreshold)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name ASC`
	if filters.PerPage > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.PerPage)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.PerPage
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE store_id = $1 AND id = $2`, storeID, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) GetByBarcode(ctx context.Context, storeID, barcode string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE store_id = $1 AND barcode = $2`, storeID, barcode)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	variants, err := marshalVariants(product.Variants)
	if err != nil {
		return Product{}, err
	}
	now := time.Now().UTC()
	err = r.db.QueryRow(ctx,
		`INSERT INTO products (id, store_id, name, price, cost_price, stock, category, barcode, variants, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`,
		product.ID, product.StoreID, product.Name, product.Price, product.CostPrice, product.Stock,
		product.Category, product.Barcode, variants, now,
	).Scan(&product.ID)
	if err != nil {
		return Product{}, err
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) error {
	variants, err := marshalVariants(product.Variants)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET name = $3, price = $4, cost_price = $5, stock = $6, category = $7, barcode = $8, variants = $9, updated_at = $10
		 WHERE store_id = $1 AND id = $2`,
		product.StoreID, product.ID, product.Name, product.Price, product.CostPrice, product.Stock,
		product.Category, product.Barcode, variants, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, storeID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Valuation(ctx context.Context, storeID string) (Valuation, error) {
	var v Valuation
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE stock < `+strconv.Itoa(LowStockThreshold)+`),
		        COALESCE(SUM(cost_price * stock), 0),
		        COALESCE(SUM(price * stock), 0)
		 FROM products WHERE store_id = $1`, storeID,
	).Scan(&v.Products, &v.LowStock, &v.TotalCost, &v.TotalSale)
	return v, err
}

func marshalVariants(variants map[string]string) ([]byte, error) {
	if len(variants) == 0 {
		return []byte(`{}`), nil
	}
	return json.Marshal(variants)
}
