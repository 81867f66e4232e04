package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the dashboard aggregate queries.
type Repository interface {
	DayTotals(ctx context.Context, storeID string, from, to time.Time) (DayTotals, error)
	DailySeries(ctx context.Context, storeID string, from, to time.Time) ([]SeriesPoint, error)
	TopProducts(ctx context.Context, storeID string, from, to time.Time, limit int) ([]TopProduct, error)
	PaymentBreakdown(ctx context.Context, storeID string, from, to time.Time) ([]PaymentSlice, error)
	RecentSales(ctx context.Context, storeID string, limit int) ([]RecentSale, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) DayTotals(ctx context.Context, storeID string, from, to time.Time) (DayTotals, error) {
	var t DayTotals
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0),
		        COUNT(*),
		        COALESCE(SUM(items), 0),
		        COALESCE(SUM(total - (
		            SELECT COALESCE(SUM((l->>'cost_price')::numeric * (l->>'quantity')::int), 0)
		            FROM jsonb_array_elements(lines) AS l
		        )), 0)
		 FROM sales
		 WHERE store_id = $1 AND created_at >= $2 AND created_at < $3`,
		storeID, from, to,
	).Scan(&t.Revenue, &t.Transactions, &t.Items, &t.NetProfit)
	return t, err
}

func (r *repository) DailySeries(ctx context.Context, storeID string, from, to time.Time) ([]SeriesPoint, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD'),
		        COALESCE(SUM(total), 0),
		        COUNT(*)
		 FROM sales
		 WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY 1 ORDER BY 1 ASC`,
		storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *repository) TopProducts(ctx context.Context, storeID string, from, to time.Time, limit int) ([]TopProduct, error) {
	rows, err := r.db.Query(ctx,
		`SELECT l->>'product_id',
		        l->>'name',
		        SUM((l->>'quantity')::int),
		        SUM((l->>'price')::numeric * (l->>'quantity')::int)
		 FROM sales, jsonb_array_elements(lines) AS l
		 WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY 1, 2
		 ORDER BY 4 DESC
		 LIMIT $4`,
		storeID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) PaymentBreakdown(ctx context.Context, storeID string, from, to time.Time) ([]PaymentSlice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		 FROM sales
		 WHERE store_id = $1 AND created_at >= $2 AND created_at < $3
		 GROUP BY payment_method
		 ORDER BY 3 DESC`,
		storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slices []PaymentSlice
	for rows.Next() {
		var s PaymentSlice
		if err := rows.Scan(&s.Method, &s.Count, &s.Revenue); err != nil {
			return nil, err
		}
		slices = append(slices, s)
	}
	return slices, rows.Err()
}

func (r *repository) RecentSales(ctx context.Context, storeID string, limit int) ([]RecentSale, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, total, items, payment_method, employee_name, created_at
		 FROM sales
		 WHERE store_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []RecentSale
	for rows.Next() {
		var s RecentSale
		if err := rows.Scan(&s.ID, &s.Total, &s.Items, &s.Method, &s.EmployeeName, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
