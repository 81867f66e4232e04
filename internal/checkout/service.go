// Package checkout turns a session cart into a persisted sale. The
// sale insert and every stock decrement run in one transaction, so a
// checkout either fully lands or leaves nothing behind.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/postify/postify/internal/cart"
	"github.com/postify/postify/internal/platform/db"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/sales"
	"github.com/postify/postify/internal/shared"
)

// ownerCommissionPercent is the rate snapshotted on sales the owner
// rings up. Commission on such sales still computes to zero because no
// employee is attributed.
const ownerCommissionPercent = 100

// Decrementer applies guarded stock subtractions inside the checkout
// transaction.
type Decrementer interface {
	Decrement(ctx context.Context, tx pgx.Tx, storeID, productID string, quantity int) error
}

// SaleWriter persists the sale row inside the same transaction.
type SaleWriter interface {
	Insert(ctx context.Context, tx pgx.Tx, sale sales.Sale) error
}

// CacheBumper invalidates cached dashboard figures after a sale lands.
type CacheBumper interface {
	Bump(ctx context.Context, storeID string) error
}

type Service struct {
	logger *slog.Logger
	runTx  db.TxRunner
	stock  Decrementer
	sales  SaleWriter
	cache  CacheBumper
	audit  *shared.AuditLogger
}

func NewService(logger *slog.Logger, runTx db.TxRunner, stock Decrementer, saleWriter SaleWriter, cache CacheBumper, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, runTx: runTx, stock: stock, sales: saleWriter, cache: cache, audit: audit}
}

// Process completes the sale for the acting identity. On success the
// returned sale is already persisted and the caller should clear the
// session cart.
func (s *Service) Process(ctx context.Context, actor policy.Identity, c cart.Cart, method sales.PaymentMethod) (sales.Sale, error) {
	if c.IsEmpty() {
		return sales.Sale{}, shared.ErrEmptyCart
	}
	if !method.Valid() {
		return sales.Sale{}, fmt.Errorf("%w: unknown payment method %q", shared.ErrValidation, method)
	}

	sale := buildSale(actor, c, method)

	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.sales.Insert(ctx, tx, sale); err != nil {
			return fmt.Errorf("%w: insert sale: %w", shared.ErrPersistence, err)
		}
		for _, line := range sale.Lines {
			if err := s.stock.Decrement(ctx, tx, actor.StoreID, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sales.Sale{}, err
	}

	if err := s.cache.Bump(ctx, actor.StoreID); err != nil {
		s.logger.Warn("bump analytics cache", slog.Any("error", err))
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		StoreID:  actor.StoreID,
		ActorID:  actor.Email,
		Action:   "sale.checkout",
		Entity:   "sale",
		EntityID: sale.ID,
		Meta: map[string]any{
			"total":  sale.Total,
			"items":  sale.Items,
			"method": string(sale.PaymentMethod),
		},
	}); err != nil {
		s.logger.Warn("record audit log", slog.Any("error", err))
	}

	s.logger.Info("checkout completed",
		slog.String("sale_id", sale.ID),
		slog.String("store_id", sale.StoreID),
		slog.Float64("total", sale.Total),
		slog.Int("items", sale.Items),
	)
	return sale, nil
}

func buildSale(actor policy.Identity, c cart.Cart, method sales.PaymentMethod) sales.Sale {
	sale := sales.Sale{
		ID:            uuid.NewString(),
		StoreID:       actor.StoreID,
		Lines:         make([]sales.SaleLine, 0, len(c.Lines)),
		Total:         c.Subtotal(),
		Items:         c.ItemCount(),
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	}
	for _, line := range c.Lines {
		sale.Lines = append(sale.Lines, sales.SaleLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			CostPrice: line.CostPrice,
			Category:  line.Category,
		})
	}

	if actor.IsOwner() || actor.Employee == nil {
		sale.CommissionPercent = ownerCommissionPercent
		return sale
	}

	profile := *actor.Employee
	sale.EmployeeID = &profile.ID
	sale.EmployeeName = &profile.Name
	sale.CommissionPercent = profile.CommissionPercent
	if sale.CommissionPercent <= 0 {
		sale.CommissionPercent = 10
	}
	return sale
}
