package service

import (
	"context"
	"math"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/domain"
)

type DashboardStore interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error)
	LowStock(ctx context.Context, threshold, limit int) ([]domain.LowStockProduct, error)
	PaymentsSince(ctx context.Context, since time.Time) ([]domain.Payment, error)
	AdminSales(ctx context.Context) ([]domain.AdminSales, error)
	PendingApprovals(ctx context.Context) (*domain.PendingApprovals, error)
	PlatformCounts(ctx context.Context) (*domain.PlatformCounts, error)
}

type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{store: store, now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.store.Stats(ctx)
}

func (s *DashboardService) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	return s.store.RecentOrders(ctx, limit)
}

func (s *DashboardService) LowStock(ctx context.Context, threshold, limit int) ([]domain.LowStockProduct, error) {
	return s.store.LowStock(ctx, threshold, limit)
}

// Revenue sums paid orders into six period buckets, oldest first.
func (s *DashboardService) Revenue(ctx context.Context, period string) ([]domain.RevenuePoint, error) {
	if period == "" {
		period = domain.PeriodMonthly
	}
	buckets, err := domain.Buckets(period, s.now().UTC(), domain.RevenueBuckets)
	if err != nil {
		return nil, err
	}

	totals, err := s.bucketRevenue(ctx, buckets)
	if err != nil {
		return nil, err
	}

	points := make([]domain.RevenuePoint, len(buckets))
	for i, b := range buckets {
		points[i] = domain.RevenuePoint{Period: b.Label, Revenue: totals[i]}
	}
	return points, nil
}

// ProfitAnalysis reports the last twelve calendar months, oldest first, with
// cost estimated from ProfitMargin.
func (s *DashboardService) ProfitAnalysis(ctx context.Context) ([]domain.ProfitPoint, error) {
	buckets, err := domain.Buckets(domain.PeriodMonthly, s.now().UTC(), domain.ProfitBuckets)
	if err != nil {
		return nil, err
	}
	totals, err := s.bucketRevenue(ctx, buckets)
	if err != nil {
		return nil, err
	}

	points := make([]domain.ProfitPoint, len(buckets))
	for i, b := range buckets {
		revenue := totals[i]
		cost := round2(revenue * (1 - domain.ProfitMargin))
		p := domain.ProfitPoint{Period: b.Label, Revenue: revenue, Cost: cost, Profit: round2(revenue - cost)}
		if revenue > 0 {
			p.Margin = round2(p.Profit / revenue * 100)
		}
		points[i] = p
	}
	return points, nil
}

// bucketRevenue sums paid orders into buckets, rounded to cents.
func (s *DashboardService) bucketRevenue(ctx context.Context, buckets []domain.Bucket) ([]float64, error) {
	payments, err := s.store.PaymentsSince(ctx, buckets[0].Start)
	if err != nil {
		return nil, err
	}

	totals := make([]float64, len(buckets))
	for i, b := range buckets {
		for _, p := range payments {
			if b.Contains(p.PaidAt.UTC()) {
				totals[i] += p.Amount
			}
		}
		totals[i] = round2(totals[i])
	}
	return totals, nil
}

func (s *DashboardService) AdminSales(ctx context.Context) ([]domain.AdminSales, error) {
	sales, err := s.store.AdminSales(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].EstimatedProfit = round2(sales[i].TotalRevenue * domain.ProfitMargin)
	}
	return sales, nil
}

func (s *DashboardService) PendingApprovals(ctx context.Context) (*domain.PendingApprovals, error) {
	return s.store.PendingApprovals(ctx)
}

// PlatformStats derives rates and averages from the platform totals.
func (s *DashboardService) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	c, err := s.store.PlatformCounts(ctx)
	if err != nil {
		return nil, err
	}

	st := &domain.PlatformStats{
		Users: domain.UserStats{
			Customers:   c.Customers,
			Admins:      c.Admins,
			SuperAdmins: c.SuperAdmins,
			Total:       c.Customers + c.Admins + c.SuperAdmins,
		},
		Products: domain.ProductStats{
			Total:        c.Products,
			Approved:     c.ApprovedProducts,
			Pending:      c.Products - c.ApprovedProducts,
			ApprovalRate: percent(c.ApprovedProducts, c.Products),
		},
		Orders: domain.OrderStats{
			Total:          c.Orders,
			Paid:           c.PaidOrders,
			Unpaid:         c.Orders - c.PaidOrders,
			Delivered:      c.DeliveredOrders,
			ConversionRate: percent(c.PaidOrders, c.Orders),
		},
		Sales: domain.SalesStats{
			TotalRevenue: round2(c.Revenue),
			TotalItems:   c.ItemsSold,
		},
	}
	if c.PaidOrders > 0 {
		st.Sales.AverageOrderValue = round2(c.Revenue / float64(c.PaidOrders))
	}
	return st, nil
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
