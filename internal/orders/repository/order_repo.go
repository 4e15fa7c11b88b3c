package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, order_number, user_id, total_amount, status, payment_status, shipping_address, paid_at, created_at, updated_at`

type OrderRepository struct {
	db postgres.DBTX
}

func NewOrderRepository(db postgres.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListFilter narrows List. Zero values mean no restriction.
type ListFilter struct {
	UserID string
	Status string
	Limit  int
}

type stockRow struct {
	name     string
	image    string
	price    float64
	stock    int
	approved bool
}

// Create turns cart lines into an order in a single transaction: product
// rows are locked, stock is checked and decremented, the daily counter is
// bumped for the order number, and the order with its item snapshots is
// inserted.
func (r *OrderRepository) Create(ctx context.Context, userID string, lines map[string]int, addr domain.Address, now time.Time) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	ids := make([]string, 0, len(lines))
	for id := range lines {
		if uuid.Validate(id) != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductUnavailable, id)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	addrJSON, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}

	o := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentPending,
		ShippingAddress: addr,
		Items:           make([]domain.Item, 0, len(ids)),
	}

	err = postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		products, err := lockProducts(ctx, tx, ids)
		if err != nil {
			return err
		}

		for _, id := range ids {
			p, ok := products[id]
			if !ok || !p.approved {
				return fmt.Errorf("%w: %s", domain.ErrProductUnavailable, id)
			}
			qty := lines[id]
			if p.stock < qty {
				return fmt.Errorf("%w for %s", domain.ErrInsufficientStock, p.name)
			}
			if _, err := tx.Exec(ctx,
				`UPDATE products SET count_in_stock = count_in_stock - $2, updated_at = now() WHERE id = $1`,
				id, qty); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			o.Items = append(o.Items, domain.Item{
				ProductID: id,
				Name:      p.name,
				Image:     p.image,
				Quantity:  qty,
				UnitPrice: p.price,
			})
			o.TotalAmount += p.price * float64(qty)
		}
		o.TotalAmount = roundCents(o.TotalAmount)

		var seq int
		if err := tx.QueryRow(ctx, `
INSERT INTO order_counters (day, last) VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET last = order_counters.last + 1
RETURNING last;
`, now.Format("2006-01-02")).Scan(&seq); err != nil {
			return fmt.Errorf("next order number: %w", err)
		}
		o.OrderNumber = domain.OrderNumber(now, seq)

		if err := tx.QueryRow(ctx, `
INSERT INTO orders (id, order_number, user_id, total_amount, status, payment_status, shipping_address)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at, updated_at;
`, o.ID, o.OrderNumber, o.UserID, o.TotalAmount, o.Status, o.PaymentStatus, addrJSON).
			Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, it := range o.Items {
			if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, product_id, name, image, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5, $6)`,
				o.ID, it.ProductID, it.Name, it.Image, it.Quantity, it.UnitPrice); err != nil {
				return fmt.Errorf("insert order item %s: %w", it.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func lockProducts(ctx context.Context, tx pgx.Tx, ids []string) (map[string]stockRow, error) {
	rows, err := tx.Query(ctx, `
SELECT id, name, image, price, count_in_stock, approved
FROM products WHERE id = ANY($1)
ORDER BY id
FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	out := make(map[string]stockRow, len(ids))
	for rows.Next() {
		var (
			id string
			p  stockRow
		)
		if err := rows.Scan(&id, &p.name, &p.image, &p.price, &p.stock, &p.approved); err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, rows.Err()
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrOrderNotFound
	}

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.attachItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// List returns orders newest first with their items.
func (r *OrderRepository) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	var (
		conds []string
		args  []any
	)
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, "user_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}

	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var ptrs []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, ptrs); err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(ptrs))
	for _, o := range ptrs {
		out = append(out, *o)
	}
	return out, nil
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Items = []domain.Item{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.Query(ctx, `
SELECT order_id, product_id, name, image, quantity, unit_price
FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			it      domain.Item
		)
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Image, &it.Quantity, &it.UnitPrice); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// UpdateStatus moves an order to status to. Cancelling puts the ordered
// quantities back in stock.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, to string) (*domain.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrOrderNotFound
	}

	err := postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var from string
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&from)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if !domain.CanTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
		}

		if to == domain.StatusCancelled {
			if err := restoreStock(ctx, tx, id); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, to); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// CancelStale cancels one order found by StalePending. The row is re-checked
// under lock, so an order paid or moved on since the listing is left alone
// and (nil, nil) is returned.
func (r *OrderRepository) CancelStale(ctx context.Context, id string, cutoff time.Time) (*domain.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrOrderNotFound
	}

	cancelled := false
	err := postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			status, payment string
			createdAt       time.Time
		)
		err := tx.QueryRow(ctx,
			`SELECT status, payment_status, created_at FROM orders WHERE id = $1 FOR UPDATE`, id).
			Scan(&status, &payment, &createdAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if status != domain.StatusPending || payment != domain.PaymentPending || !createdAt.Before(cutoff) {
			return nil
		}

		if err := restoreStock(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			id, domain.StatusCancelled); err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		cancelled = true
		return nil
	})
	if err != nil || !cancelled {
		return nil, err
	}
	return r.Get(ctx, id)
}

func restoreStock(ctx context.Context, tx pgx.Tx, orderID string) error {
	if _, err := tx.Exec(ctx, `
UPDATE products p
SET count_in_stock = p.count_in_stock + oi.quantity, updated_at = now()
FROM order_items oi
WHERE oi.order_id = $1 AND p.id = oi.product_id`, orderID); err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

// UpdatePayment changes the payment status; paid stamps paid_at.
func (r *OrderRepository) UpdatePayment(ctx context.Context, id, to string) (*domain.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrOrderNotFound
	}

	err := postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var from string
		err := tx.QueryRow(ctx, `SELECT payment_status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&from)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if !domain.CanTransitionPayment(from, to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
		}

		if _, err := tx.Exec(ctx, `
UPDATE orders
SET payment_status = $2,
    paid_at = CASE WHEN $2 = 'paid' THEN now() ELSE paid_at END,
    updated_at = now()
WHERE id = $1`, id, to); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// StalePending returns unpaid pending orders created before cutoff.
func (r *OrderRepository) StalePending(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
SELECT id FROM orders
WHERE status = 'pending' AND payment_status = 'pending' AND created_at < $1
ORDER BY created_at`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale orders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o    domain.Order
		addr []byte
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&addr, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
			return nil, fmt.Errorf("decode shipping address: %w", err)
		}
	}
	return &o, nil
}
