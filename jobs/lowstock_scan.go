package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postify/postify/internal/catalog/products"
	jobmetrics "github.com/postify/postify/internal/jobs"
	"github.com/postify/postify/internal/observability"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LowStockScanner flags products under the alert threshold across all
// stores, logging each and feeding the gauge the dashboard scrapes.
type LowStockScanner struct {
	logger  *slog.Logger
	pool    *pgxpool.Pool
	gauges  *observability.Metrics
	metrics *jobmetrics.Metrics
}

func NewLowStockScanner(logger *slog.Logger, pool *pgxpool.Pool, gauges *observability.Metrics, metrics *jobmetrics.Metrics) *LowStockScanner {
	return &LowStockScanner{logger: logger, pool: pool, gauges: gauges, metrics: metrics}
}

// Handle processes TaskTypeLowStockScan tasks.
func (s *LowStockScanner) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := s.jobMetrics().Track(TaskTypeLowStockScan)
	return tracker.End(s.scan(ctx))
}

func (s *LowStockScanner) scan(ctx context.Context) error {
	rows, err := s.pool.Query(ctx,
		`SELECT store_id, id, name, stock FROM products WHERE stock < $1 ORDER BY store_id, stock ASC`,
		products.LowStockThreshold)
	if err != nil {
		return err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var storeID, productID, name string
		var stock int
		if err := rows.Scan(&storeID, &productID, &name, &stock); err != nil {
			return err
		}
		count++
		s.logger.Warn("low stock",
			slog.String("store_id", storeID),
			slog.String("product_id", productID),
			slog.String("name", name),
			slog.Int("stock", stock),
		)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.gauges.SetLowStockCount(count)
	s.logger.Info("low stock scan completed", slog.Int("flagged", count))
	return nil
}

func (s *LowStockScanner) jobMetrics() *jobmetrics.Metrics {
	if s.metrics != nil {
		return s.metrics
	}
	return defaultJobMetrics
}
