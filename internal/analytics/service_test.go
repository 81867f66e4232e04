package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	calls int
}

func (r *countingRepo) DayTotals(context.Context, string, time.Time, time.Time) (DayTotals, error) {
	r.calls++
	return DayTotals{Revenue: 100, Transactions: 4, Items: 9, NetProfit: 40}, nil
}

func (r *countingRepo) DailySeries(context.Context, string, time.Time, time.Time) ([]SeriesPoint, error) {
	return []SeriesPoint{{Date: "2026-08-28", Revenue: 100, Count: 4}}, nil
}

func (r *countingRepo) TopProducts(context.Context, string, time.Time, time.Time, int) ([]TopProduct, error) {
	return []TopProduct{{ProductID: "p1", Name: "Camiseta", Quantity: 6, Revenue: 150}}, nil
}

func (r *countingRepo) PaymentBreakdown(context.Context, string, time.Time, time.Time) ([]PaymentSlice, error) {
	return []PaymentSlice{{Method: "cash", Count: 3, Revenue: 75}}, nil
}

func (r *countingRepo) RecentSales(context.Context, string, int) ([]RecentSale, error) {
	return []RecentSale{{ID: "s1", Total: 25, Items: 1, Method: "cash"}}, nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestDashboardCachesBetweenCalls(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, newTestCache(t))

	first, err := svc.Dashboard(context.Background(), "store-1")
	require.NoError(t, err)
	require.Equal(t, 100.0, first.Today.Revenue)
	require.Len(t, first.TopProducts, 1)

	_, err = svc.Dashboard(context.Background(), "store-1")
	require.NoError(t, err)

	// Two DayTotals calls per build (today + yesterday), one build.
	require.Equal(t, 2, repo.calls)
}

func TestBumpInvalidatesCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, newTestCache(t))

	_, err := svc.Dashboard(context.Background(), "store-1")
	require.NoError(t, err)
	require.NoError(t, svc.Bump(context.Background(), "store-1"))

	_, err = svc.Dashboard(context.Background(), "store-1")
	require.NoError(t, err)
	require.Equal(t, 4, repo.calls)
}

func TestCacheVersionsAreIndependentPerStore(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	v1, err := cache.Version(ctx, "store-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, v1)

	require.NoError(t, cache.Bump(ctx, "store-1"))

	v1, err = cache.Version(ctx, "store-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, v1)

	v2, err := cache.Version(ctx, "store-2")
	require.NoError(t, err)
	require.EqualValues(t, 1, v2)
}

func TestNilCacheDegradesToDirectBuild(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo, nil)

	_, err := svc.Dashboard(context.Background(), "store-1")
	require.NoError(t, err)

	_, err = svc.Dashboard(context.Background(), "store-1")
	require.NoError(t, err)
	require.Equal(t, 4, repo.calls)
}
