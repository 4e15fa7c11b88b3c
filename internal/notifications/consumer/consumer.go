package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/service"
	orderdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Deliverer stores a rendered order event.
type Deliverer interface {
	Deliver(ctx context.Context, ev orderdomain.Event) error
}

// Consumer turns order events from the broker into inbox entries.
type Consumer struct {
	svc Deliverer
	log *zap.Logger
}

func New(svc Deliverer, log *zap.Logger) *Consumer {
	return &Consumer{svc: svc, log: log}
}

// Run handles deliveries until ctx is cancelled or the channel closes.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	c.log.Info("notifications consumer started")
	for {
		select {
		case <-ctx.Done():
			c.log.Info("notifications consumer stopped")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	err := c.process(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, service.ErrMalformedEvent):
		c.log.Warn("dropping malformed delivery", zap.String("routing_key", d.RoutingKey), zap.Error(err))
		_ = d.Nack(false, false)
	default:
		c.log.Error("deliver notification", zap.String("routing_key", d.RoutingKey), zap.Error(err))
		_ = d.Nack(false, true)
	}
}

func (c *Consumer) process(ctx context.Context, body []byte) error {
	var ev orderdomain.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", service.ErrMalformedEvent, err)
	}
	return c.svc.Deliver(ctx, ev)
}
