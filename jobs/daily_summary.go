package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/postify/postify/internal/jobs"
	"github.com/postify/postify/internal/shared"
)

// DailySummarizer builds yesterday's per-store sales digest and hands
// each one to the mail queue.
type DailySummarizer struct {
	logger  *slog.Logger
	pool    *pgxpool.Pool
	mail    *Client
	metrics *jobmetrics.Metrics
}

func NewDailySummarizer(logger *slog.Logger, pool *pgxpool.Pool, mail *Client, metrics *jobmetrics.Metrics) *DailySummarizer {
	return &DailySummarizer{logger: logger, pool: pool, mail: mail, metrics: metrics}
}

// Handle processes TaskTypeDailySummary tasks.
func (s *DailySummarizer) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := s.jobMetrics().Track(TaskTypeDailySummary)
	return tracker.End(s.summarize(ctx))
}

func (s *DailySummarizer) summarize(ctx context.Context) error {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := s.pool.Query(ctx,
		`SELECT s.store_id, o.email, COUNT(*), COALESCE(SUM(s.total), 0), COALESCE(SUM(s.items), 0)
		 FROM sales s
		 JOIN owners o ON o.id = s.store_id
		 WHERE s.created_at >= $1 AND s.created_at < $2
		 GROUP BY s.store_id, o.email`,
		dayStart, dayEnd)
	if err != nil {
		return err
	}
	defer rows.Close()

	digests := 0
	for rows.Next() {
		var storeID, email string
		var transactions, items int
		var revenue float64
		if err := rows.Scan(&storeID, &email, &transactions, &revenue, &items); err != nil {
			return err
		}

		body := fmt.Sprintf("Sales for %s: %d transactions, %d items, %s revenue.",
			dayStart.Format("2006-01-02"), transactions, items, shared.FormatPrice(revenue))
		if _, err := s.mail.EnqueueSendEmail(ctx, SendEmailPayload{
			To:      email,
			Subject: "Daily sales summary " + dayStart.Format("2006-01-02"),
			Body:    body,
		}); err != nil {
			s.logger.Warn("enqueue daily summary mail",
				slog.String("store_id", storeID), slog.Any("error", err))
			continue
		}
		digests++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.logger.Info("daily summary completed", slog.Int("digests", digests))
	return nil
}

func (s *DailySummarizer) jobMetrics() *jobmetrics.Metrics {
	if s.metrics != nil {
		return s.metrics
	}
	return defaultJobMetrics
}
