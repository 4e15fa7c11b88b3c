package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/dashboard/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
)

// DashboardRepository runs the read-only aggregate queries behind the
// admin dashboard.
type DashboardRepository struct {
	db postgres.DBTX
}

func NewDashboardRepository(db postgres.DBTX) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	var s domain.Stats
	err := r.db.QueryRow(ctx, `
SELECT
    (SELECT count(*) FROM products),
    (SELECT count(*) FROM users),
    (SELECT count(*) FROM orders),
    (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'paid')`).
		Scan(&s.Products, &s.Users, &s.Orders, &s.Revenue)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &s, nil
}

func (r *DashboardRepository) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	rows, err := r.db.Query(ctx, `
SELECT o.id, o.order_number, COALESCE(u.name, ''), o.total_amount, o.status, o.payment_status, o.created_at
FROM orders o
LEFT JOIN users u ON u.id = o.user_id
ORDER BY o.created_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	defer rows.Close()

	out := []domain.RecentOrder{}
	for rows.Next() {
		var o domain.RecentOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserName, &o.TotalAmount, &o.Status, &o.PaymentStatus, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// LowStock lists products with fewer than threshold units, scarcest first.
func (r *DashboardRepository) LowStock(ctx context.Context, threshold, limit int) ([]domain.LowStockProduct, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, name, image, count_in_stock
FROM products
WHERE count_in_stock < $1
ORDER BY count_in_stock ASC, name ASC
LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()

	out := []domain.LowStockProduct{}
	for rows.Next() {
		var p domain.LowStockProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.CountInStock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PaymentsSince returns paid orders with paid_at at or after since.
func (r *DashboardRepository) PaymentsSince(ctx context.Context, since time.Time) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `
SELECT paid_at, total_amount
FROM orders
WHERE payment_status = 'paid' AND paid_at >= $1
ORDER BY paid_at`, since)
	if err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PaidAt, &p.Amount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdminSales aggregates, per admin, their product count and the units and
// revenue of those products across paid orders.
func (r *DashboardRepository) AdminSales(ctx context.Context) ([]domain.AdminSales, error) {
	rows, err := r.db.Query(ctx, `
SELECT u.id, u.name, u.email,
       (SELECT count(*) FROM products p WHERE p.seller_id = u.id),
       COALESCE(s.units, 0),
       COALESCE(s.revenue, 0)
FROM users u
LEFT JOIN (
    SELECT p.seller_id, SUM(oi.quantity) AS units, SUM(oi.quantity * oi.unit_price) AS revenue
    FROM order_items oi
    JOIN orders o ON o.id = oi.order_id AND o.payment_status = 'paid'
    JOIN products p ON p.id = oi.product_id
    GROUP BY p.seller_id
) s ON s.seller_id = u.id
WHERE u.role = 'admin'
ORDER BY u.name`)
	if err != nil {
		return nil, fmt.Errorf("admin sales: %w", err)
	}
	defer rows.Close()

	out := []domain.AdminSales{}
	for rows.Next() {
		var a domain.AdminSales
		if err := rows.Scan(&a.AdminID, &a.AdminName, &a.AdminEmail, &a.TotalProducts, &a.TotalSales, &a.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *DashboardRepository) PendingApprovals(ctx context.Context) (*domain.PendingApprovals, error) {
	var p domain.PendingApprovals
	err := r.db.QueryRow(ctx, `
SELECT
    (SELECT count(*) FROM products WHERE NOT approved),
    (SELECT count(*) FROM shops WHERE NOT approved)`).
		Scan(&p.PendingProducts, &p.PendingShops)
	if err != nil {
		return nil, fmt.Errorf("pending approvals: %w", err)
	}
	return &p, nil
}

// PlatformCounts gathers the user, product, order and sales totals in one
// round trip. Revenue and items sold count paid orders only.
func (r *DashboardRepository) PlatformCounts(ctx context.Context) (*domain.PlatformCounts, error) {
	var c domain.PlatformCounts
	err := r.db.QueryRow(ctx, `
SELECT
    (SELECT count(*) FROM users WHERE role = 'customer'),
    (SELECT count(*) FROM users WHERE role = 'admin'),
    (SELECT count(*) FROM users WHERE role = 'superAdmin'),
    (SELECT count(*) FROM products),
    (SELECT count(*) FROM products WHERE approved),
    (SELECT count(*) FROM orders),
    (SELECT count(*) FROM orders WHERE payment_status = 'paid'),
    (SELECT count(*) FROM orders WHERE status = 'delivered'),
    (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = 'paid'),
    (SELECT COALESCE(SUM(oi.quantity), 0)
       FROM order_items oi JOIN orders o ON o.id = oi.order_id
      WHERE o.payment_status = 'paid')`).
		Scan(&c.Customers, &c.Admins, &c.SuperAdmins,
			&c.Products, &c.ApprovedProducts,
			&c.Orders, &c.PaidOrders, &c.DeliveredOrders,
			&c.Revenue, &c.ItemsSold)
	if err != nil {
		return nil, fmt.Errorf("platform counts: %w", err)
	}
	return &c, nil
}
