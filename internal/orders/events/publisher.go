package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/messaging/rabbitmq"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
)

// Publisher announces order lifecycle changes.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// Broker is the part of the RabbitMQ client used for publishing.
type Broker interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type RabbitPublisher struct {
	broker Broker
}

func NewRabbitPublisher(b Broker) *RabbitPublisher {
	return &RabbitPublisher{broker: b}
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev domain.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	return p.broker.Publish(ctx, rabbitmq.ExchangeOrders, ev.RoutingKey(), body)
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
