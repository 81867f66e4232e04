package sales

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/shared"
)

type Repository interface {
	// Insert writes the sale inside the checkout transaction.
	Insert(ctx context.Context, tx pgx.Tx, sale Sale) error
	List(ctx context.Context, storeID string, filters ListFilters) ([]Sale, int, error)
	Get(ctx context.Context, storeID, id string) (Sale, error)
	// Delete removes a sale inside a transaction so the caller can
	// restock its lines atomically.
	Delete(ctx context.Context, tx pgx.Tx, storeID, id string) (Sale, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `id, store_id, lines, total, items, payment_method, employee_id, employee_name, commission_percent, created_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	var lines []byte
	err := row.Scan(&s.ID, &s.StoreID, &lines, &s.Total, &s.Items, &s.PaymentMethod,
		&s.EmployeeID, &s.EmployeeName, &s.CommissionPercent, &s.CreatedAt)
	if err != nil {
		return Sale{}, err
	}
	if err := json.Unmarshal(lines, &s.Lines); err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (r *repository) Insert(ctx context.Context, tx pgx.Tx, sale Sale) error {
	lines, err := json.Marshal(sale.Lines)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO sales (id, store_id, lines, total, items, payment_method, employee_id, employee_name, commission_percent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sale.ID, sale.StoreID, lines, sale.Total, sale.Items, sale.PaymentMethod,
		sale.EmployeeID, sale.EmployeeName, sale.CommissionPercent, sale.CreatedAt)
	return err
}

func (r *repository) List(ctx context.Context, storeID string, filters ListFilters) ([]Sale, int, error) {
	where := ` WHERE store_id = $1`
	args := []interface{}{storeID}
	argCount := 1

	if !filters.From.IsZero() {
		argCount++
		where += ` AND created_at >= $` + strconv.Itoa(argCount)
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		argCount++
		where += ` AND created_at < $` + strconv.Itoa(argCount)
		args = append(args, filters.To)
	}
	if filters.EmployeeID != "" {
		argCount++
		where += ` AND employee_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.EmployeeID)
	}
	if filters.PaymentMethod != "" {
		argCount++
		where += ` AND payment_method = $` + strconv.Itoa(argCount)
		args = append(args, filters.PaymentMethod)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + saleColumns + ` FROM sales` + where + ` ORDER BY created_at DESC`
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

	var items []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id string) (Sale, error) {
	row := r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE store_id = $1 AND id = $2`, storeID, id)
	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Delete(ctx context.Context, tx pgx.Tx, storeID, id string) (Sale, error) {
	row := tx.QueryRow(ctx,
		`DELETE FROM sales WHERE store_id = $1 AND id = $2 RETURNING `+saleColumns, storeID, id)
	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, shared.ErrNotFound
	}
	return s, err
}
