package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	authdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/events"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/repository"
	"go.uber.org/zap"
)

type OrderStore interface {
	Create(ctx context.Context, userID string, lines map[string]int, addr domain.Address, now time.Time) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f repository.ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, to string) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id, to string) (*domain.Order, error)
	StalePending(ctx context.Context, cutoff time.Time) ([]string, error)
	CancelStale(ctx context.Context, id string, cutoff time.Time) (*domain.Order, error)
}

// CartSource is the caller's cart as stored quantities per product.
type CartSource interface {
	Items(ctx context.Context, userID string) (map[string]int, error)
	Clear(ctx context.Context, userID string) error
}

type OrderService struct {
	store     OrderStore
	cart      CartSource
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(store OrderStore, cart CartSource, pub events.Publisher, log *zap.Logger) *OrderService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &OrderService{store: store, cart: cart, publisher: pub, log: log, now: time.Now}
}

// Place checks out the caller's cart.
func (s *OrderService) Place(ctx context.Context, actor authdomain.Actor, addr domain.Address) (*domain.Order, error) {
	addr = trimAddress(addr)
	if err := validateAddress(addr); err != nil {
		return nil, err
	}

	lines, err := s.cart.Items(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	now := s.now()
	o, err := s.store.Create(ctx, actor.ID, lines, addr, now)
	if err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, actor.ID); err != nil {
		s.log.Warn("clear cart after checkout", zap.String("user_id", actor.ID), zap.Error(err))
	}

	s.log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total", o.TotalAmount),
	)
	s.publish(ctx, domain.EventCreated, o, now)
	return o, nil
}

// Get returns an order to its owner or an admin.
func (s *OrderService) Get(ctx context.Context, actor authdomain.Actor, id string) (*domain.Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (s *OrderService) Mine(ctx context.Context, actor authdomain.Actor) ([]domain.Order, error) {
	return s.store.List(ctx, repository.ListFilter{UserID: actor.ID})
}

// List returns every order, optionally narrowed to one status.
func (s *OrderService) List(ctx context.Context, status string) ([]domain.Order, error) {
	status = strings.TrimSpace(status)
	if status != "" && !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return s.store.List(ctx, repository.ListFilter{Status: status})
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	status = strings.TrimSpace(status)
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	o, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("order status changed", zap.String("order_id", o.ID), zap.String("status", o.Status))
	s.publish(ctx, domain.EventStatusChanged, o, s.now())
	return o, nil
}

func (s *OrderService) UpdatePayment(ctx context.Context, id, status string) (*domain.Order, error) {
	status = strings.TrimSpace(status)
	if !domain.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	o, err := s.store.UpdatePayment(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("order payment changed", zap.String("order_id", o.ID), zap.String("payment_status", o.PaymentStatus))
	s.publish(ctx, domain.EventPaymentChanged, o, s.now())
	return o, nil
}

// CancelStale cancels unpaid pending orders older than ttl and returns
// how many were cancelled. One failing order does not stop the sweep.
func (s *OrderService) CancelStale(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)
	ids, err := s.store.StalePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return cancelled, ctx.Err()
		}
		o, err := s.store.CancelStale(ctx, id, cutoff)
		if err != nil {
			s.log.Warn("cancel stale order", zap.String("order_id", id), zap.Error(err))
			continue
		}
		if o == nil {
			s.log.Debug("stale order no longer pending", zap.String("order_id", id))
			continue
		}
		cancelled++
		s.publish(ctx, domain.EventStatusChanged, o, s.now())
	}
	return cancelled, nil
}

func (s *OrderService) publish(ctx context.Context, typ string, o *domain.Order, at time.Time) {
	ev := domain.NewEvent(typ, o, at)
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publish order event",
			zap.String("routing_key", ev.RoutingKey()),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func trimAddress(a domain.Address) domain.Address {
	return domain.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

func validateAddress(a domain.Address) error {
	var missing []string
	if a.Street == "" {
		missing = append(missing, "street")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.ZipCode == "" {
		missing = append(missing, "zipCode")
	}
	if a.Country == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: shipping address is missing %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
