package domain

import (
	"errors"
	"strconv"
	"time"
)

const (
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"

	RevenueBuckets = 6
	ProfitBuckets  = 12
	ProfitMargin   = 0.3
)

var ErrInvalidPeriod = errors.New("period must be monthly or weekly")

type Stats struct {
	Products int     `json:"products"`
	Users    int     `json:"users"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
}

type RecentOrder struct {
	ID            string    `json:"id"`
	OrderNumber   string    `json:"orderNumber"`
	UserName      string    `json:"userName"`
	TotalAmount   float64   `json:"totalAmount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

type LowStockProduct struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	CountInStock int    `json:"countInStock"`
}

// Payment is one paid order used for revenue bucketing.
type Payment struct {
	PaidAt time.Time
	Amount float64
}

type RevenuePoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

type AdminSales struct {
	AdminID         string  `json:"adminId"`
	AdminName       string  `json:"adminName"`
	AdminEmail      string  `json:"adminEmail"`
	TotalProducts   int     `json:"totalProducts"`
	TotalSales      int     `json:"totalSales"`
	TotalRevenue    float64 `json:"totalRevenue"`
	EstimatedProfit float64 `json:"estimatedProfit"`
}

// ProfitPoint is one month of the profit analysis. Cost is estimated as the
// share of revenue outside ProfitMargin; Margin is a percentage.
type ProfitPoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Margin  float64 `json:"margin"`
}

// PlatformCounts are the raw totals behind PlatformStats.
type PlatformCounts struct {
	Customers        int
	Admins           int
	SuperAdmins      int
	Products         int
	ApprovedProducts int
	Orders           int
	PaidOrders       int
	DeliveredOrders  int
	Revenue          float64
	ItemsSold        int
}

type UserStats struct {
	Customers   int `json:"totalCustomers"`
	Admins      int `json:"totalAdmins"`
	SuperAdmins int `json:"totalSuperAdmins"`
	Total       int `json:"total"`
}

type ProductStats struct {
	Total        int     `json:"total"`
	Approved     int     `json:"approved"`
	Pending      int     `json:"pending"`
	ApprovalRate float64 `json:"approvalRate"`
}

type OrderStats struct {
	Total          int     `json:"total"`
	Paid           int     `json:"paid"`
	Unpaid         int     `json:"unpaid"`
	Delivered      int     `json:"delivered"`
	ConversionRate float64 `json:"conversionRate"`
}

type SalesStats struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalItems        int     `json:"totalItems"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// PlatformStats is the superAdmin overview. Rates are percentages.
type PlatformStats struct {
	Users    UserStats    `json:"users"`
	Products ProductStats `json:"products"`
	Orders   OrderStats   `json:"orders"`
	Sales    SalesStats   `json:"sales"`
}

type PendingApprovals struct {
	PendingProducts int `json:"pendingProducts"`
	PendingShops    int `json:"pendingShops"`
}

// Bucket is the half-open interval [Start, End).
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Buckets returns n revenue buckets ending with the one containing now,
// oldest first. Monthly buckets are calendar months labelled "Jan 2026".
// Weekly buckets start on Sunday and are labelled "Week N", where Week 1
// is the current week.
func Buckets(period string, now time.Time, n int) ([]Bucket, error) {
	out := make([]Bucket, n)
	switch period {
	case PeriodMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := 0; i < n; i++ {
			start := first.AddDate(0, -i, 0)
			out[n-1-i] = Bucket{Label: start.Format("Jan 2006"), Start: start, End: start.AddDate(0, 1, 0)}
		}
	case PeriodWeekly:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		sunday := day.AddDate(0, 0, -int(day.Weekday()))
		for i := 0; i < n; i++ {
			start := sunday.AddDate(0, 0, -7*i)
			out[n-1-i] = Bucket{Label: "Week " + strconv.Itoa(i+1), Start: start, End: start.AddDate(0, 0, 7)}
		}
	default:
		return nil, ErrInvalidPeriod
	}
	return out, nil
}
