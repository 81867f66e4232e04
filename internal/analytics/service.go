package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	topProductLimit = 5
	recentSaleLimit = 10
)

// Service assembles the dashboard, caching the result and collapsing
// concurrent builds for the same store into one query pass.
type Service struct {
	repo  Repository
	cache *Cache
	group singleflight.Group
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

// Dashboard returns the store's dashboard, from cache when fresh.
func (s *Service) Dashboard(ctx context.Context, storeID string) (Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, storeID, "dashboard")
	if err != nil {
		return Dashboard{}, err
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var d Dashboard
		err := s.cache.FetchJSON(ctx, key, &d, func(ctx context.Context) (interface{}, error) {
			return s.build(ctx, storeID)
		})
		return d, err
	})
	if err != nil {
		return Dashboard{}, err
	}
	return v.(Dashboard), nil
}

// Bump invalidates the store's cached dashboard.
func (s *Service) Bump(ctx context.Context, storeID string) error {
	return s.cache.Bump(ctx, storeID)
}

func (s *Service) build(ctx context.Context, storeID string) (Dashboard, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -6)
	tomorrow := todayStart.AddDate(0, 0, 1)

	today, err := s.repo.DayTotals(ctx, storeID, todayStart, tomorrow)
	if err != nil {
		return Dashboard{}, err
	}
	yesterday, err := s.repo.DayTotals(ctx, storeID, yesterdayStart, todayStart)
	if err != nil {
		return Dashboard{}, err
	}
	weekly, err := s.repo.DailySeries(ctx, storeID, weekStart, tomorrow)
	if err != nil {
		return Dashboard{}, err
	}
	top, err := s.repo.TopProducts(ctx, storeID, weekStart, tomorrow, topProductLimit)
	if err != nil {
		return Dashboard{}, err
	}
	payments, err := s.repo.PaymentBreakdown(ctx, storeID, weekStart, tomorrow)
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.repo.RecentSales(ctx, storeID, recentSaleLimit)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Today:       today,
		Yesterday:   yesterday,
		Weekly:      weekly,
		TopProducts: top,
		Payments:    payments,
		Recent:      recent,
		GeneratedAt: now,
	}, nil
}
