package service

import (
	"context"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	payments []domain.Payment
	since    time.Time
	sales    []domain.AdminSales
	counts   domain.PlatformCounts
}

func (f *fakeStore) Stats(context.Context) (*domain.Stats, error) {
	return &domain.Stats{Products: 3}, nil
}

func (f *fakeStore) RecentOrders(context.Context, int) ([]domain.RecentOrder, error) {
	return nil, nil
}

func (f *fakeStore) LowStock(context.Context, int, int) ([]domain.LowStockProduct, error) {
	return nil, nil
}

func (f *fakeStore) PaymentsSince(_ context.Context, since time.Time) ([]domain.Payment, error) {
	f.since = since
	return f.payments, nil
}

func (f *fakeStore) AdminSales(context.Context) ([]domain.AdminSales, error) {
	return f.sales, nil
}

func (f *fakeStore) PendingApprovals(context.Context) (*domain.PendingApprovals, error) {
	return &domain.PendingApprovals{}, nil
}

func (f *fakeStore) PlatformCounts(context.Context) (*domain.PlatformCounts, error) {
	c := f.counts
	return &c, nil
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDashboardService_Revenue(t *testing.T) {
	store := &fakeStore{payments: []domain.Payment{
		{PaidAt: at(2025, 10, 3), Amount: 10},
		{PaidAt: at(2026, 1, 31), Amount: 20.5},
		{PaidAt: at(2026, 1, 1), Amount: 4.5},
		{PaidAt: at(2026, 3, 14), Amount: 7},
	}}
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return at(2026, 3, 14) }

	t.Run("monthly by default", func(t *testing.T) {
		got, err := svc.Revenue(context.Background(), "")
		require.NoError(t, err)

		want := []domain.RevenuePoint{
			{Period: "Oct 2025", Revenue: 10},
			{Period: "Nov 2025"},
			{Period: "Dec 2025"},
			{Period: "Jan 2026", Revenue: 25},
			{Period: "Feb 2026"},
			{Period: "Mar 2026", Revenue: 7},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("revenue mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), store.since)
	})

	t.Run("weekly", func(t *testing.T) {
		got, err := svc.Revenue(context.Background(), domain.PeriodWeekly)
		require.NoError(t, err)
		require.Len(t, got, 6)
		assert.Equal(t, domain.RevenuePoint{Period: "Week 1", Revenue: 7}, got[5])
	})

	t.Run("unknown period", func(t *testing.T) {
		_, err := svc.Revenue(context.Background(), "yearly")
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	})
}

func TestDashboardService_AdminSales(t *testing.T) {
	store := &fakeStore{sales: []domain.AdminSales{
		{AdminName: "Ada", TotalRevenue: 100},
		{AdminName: "Bob", TotalRevenue: 33.33},
	}}
	got, err := NewDashboardService(store).AdminSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.0, got[0].EstimatedProfit)
	assert.Equal(t, 10.0, got[1].EstimatedProfit)
}

func TestDashboardService_ProfitAnalysis(t *testing.T) {
	store := &fakeStore{payments: []domain.Payment{
		{PaidAt: at(2025, 3, 20), Amount: 999},
		{PaidAt: at(2025, 4, 10), Amount: 100},
		{PaidAt: at(2026, 3, 14), Amount: 10.01},
	}}
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return at(2026, 3, 14) }

	got, err := svc.ProfitAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, got, domain.ProfitBuckets)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), store.since)

	assert.Equal(t, domain.ProfitPoint{Period: "Apr 2025", Revenue: 100, Cost: 70, Profit: 30, Margin: 30}, got[0])
	assert.Equal(t, domain.ProfitPoint{Period: "Sep 2025"}, got[5], "empty month has zero margin")
	assert.Equal(t, domain.ProfitPoint{Period: "Mar 2026", Revenue: 10.01, Cost: 7.01, Profit: 3, Margin: 29.97}, got[11])
}

func TestDashboardService_PlatformStats(t *testing.T) {
	store := &fakeStore{counts: domain.PlatformCounts{
		Customers: 8, Admins: 2, SuperAdmins: 1,
		Products: 3, ApprovedProducts: 2,
		Orders: 4, PaidOrders: 3, DeliveredOrders: 1,
		Revenue: 100, ItemsSold: 7,
	}}

	got, err := NewDashboardService(store).PlatformStats(context.Background())
	require.NoError(t, err)

	want := &domain.PlatformStats{
		Users:    domain.UserStats{Customers: 8, Admins: 2, SuperAdmins: 1, Total: 11},
		Products: domain.ProductStats{Total: 3, Approved: 2, Pending: 1, ApprovalRate: 66.67},
		Orders:   domain.OrderStats{Total: 4, Paid: 3, Unpaid: 1, Delivered: 1, ConversionRate: 75},
		Sales:    domain.SalesStats{TotalRevenue: 100, TotalItems: 7, AverageOrderValue: 33.33},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("platform stats mismatch (-want +got):\n%s", diff)
	}

	t.Run("empty platform has zero rates", func(t *testing.T) {
		got, err := NewDashboardService(&fakeStore{}).PlatformStats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, got.Products.ApprovalRate)
		assert.Zero(t, got.Orders.ConversionRate)
		assert.Zero(t, got.Sales.AverageOrderValue)
	})
}
