package sales

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/postify/postify/internal/platform/db"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

// Restocker puts quantities back when a sale is voided.
type Restocker interface {
	Restock(ctx context.Context, tx pgx.Tx, storeID, productID string, quantity int) error
}

// CacheBumper invalidates cached dashboard figures after a write.
type CacheBumper interface {
	Bump(ctx context.Context, storeID string) error
}

type Service struct {
	logger *slog.Logger
	repo   Repository
	runTx  db.TxRunner
	stock  Restocker
	cache  CacheBumper
	audit  *shared.AuditLogger
}

func NewService(logger *slog.Logger, repo Repository, runTx db.TxRunner, stock Restocker, cache CacheBumper, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, runTx: runTx, stock: stock, cache: cache, audit: audit}
}

// SaleWithCommission pairs a sale with its computed commission.
type SaleWithCommission struct {
	Sale
	Commission float64
}

func (s *Service) List(ctx context.Context, storeID string, filters ListFilters) ([]SaleWithCommission, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	items, total, err := s.repo.List(ctx, storeID, filters)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SaleWithCommission, 0, len(items))
	for _, sale := range items {
		out = append(out, SaleWithCommission{Sale: sale, Commission: Commission(sale)})
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, storeID, id string) (SaleWithCommission, error) {
	sale, err := s.repo.Get(ctx, storeID, id)
	if err != nil {
		return SaleWithCommission{}, err
	}
	return SaleWithCommission{Sale: sale, Commission: Commission(sale)}, nil
}

// Void deletes a sale and returns its quantities to stock in one
// transaction.
func (s *Service) Void(ctx context.Context, actor policy.Identity, id string) error {
	if id == "" {
		return fmt.Errorf("%w: sale id is required", shared.ErrValidation)
	}

	var voided Sale
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		sale, err := s.repo.Delete(ctx, tx, actor.StoreID, id)
		if err != nil {
			return err
		}
		for _, line := range sale.Lines {
			if line.ProductID == "" {
				continue
			}
			if err := s.stock.Restock(ctx, tx, actor.StoreID, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		voided = sale
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.cache.Bump(ctx, actor.StoreID); err != nil {
		s.logger.Warn("bump analytics cache", slog.Any("error", err))
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		StoreID:  actor.StoreID,
		ActorID:  actor.Email,
		Action:   "sale.void",
		Entity:   "sale",
		EntityID: voided.ID,
		Meta:     map[string]any{"total": voided.Total, "items": voided.Items},
	}); err != nil {
		s.logger.Warn("record audit log", slog.Any("error", err))
	}
	return nil
}
