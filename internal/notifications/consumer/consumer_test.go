package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/service"
	orderdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type outcome struct {
	acked, requeue bool
}

// recorder implements amqp.Acknowledger.
type recorder struct {
	mu       sync.Mutex
	outcomes map[uint64]outcome
}

func (r *recorder) Ack(tag uint64, _ bool) error {
	r.set(tag, outcome{acked: true})
	return nil
}

func (r *recorder) Nack(tag uint64, _ bool, requeue bool) error {
	r.set(tag, outcome{requeue: requeue})
	return nil
}

func (r *recorder) Reject(tag uint64, requeue bool) error {
	r.set(tag, outcome{requeue: requeue})
	return nil
}

func (r *recorder) set(tag uint64, o outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[tag] = o
}

func (r *recorder) get(tag uint64) (outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.outcomes[tag]
	return o, ok
}

type flakyDeliverer struct {
	mu  sync.Mutex
	got []orderdomain.Event
}

func (f *flakyDeliverer) Deliver(_ context.Context, ev orderdomain.Event) error {
	if ev.UserID == "" {
		return service.ErrMalformedEvent
	}
	if ev.UserID == "redis-down" {
		return errors.New("connection refused")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, ev)
	return nil
}

func TestConsumer_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	ack := &recorder{outcomes: map[uint64]outcome{}}
	svc := &flakyDeliverer{}
	deliveries := make(chan amqp.Delivery)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(svc, zap.NewNop()).Run(ctx, deliveries) }()

	body := func(ev orderdomain.Event) []byte {
		b, err := json.Marshal(ev)
		require.NoError(t, err)
		return b
	}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: body(orderdomain.Event{Type: "created", OrderID: "o1", UserID: "u1"})}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("{nope")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: body(orderdomain.Event{Type: "created", OrderID: "o2", UserID: "redis-down"})}

	assert.Eventually(t, func() bool {
		_, ok := ack.get(3)
		return ok
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	o, _ := ack.get(1)
	assert.Equal(t, outcome{acked: true}, o)
	o, _ = ack.get(2)
	assert.Equal(t, outcome{}, o, "malformed deliveries are dropped")
	o, _ = ack.get(3)
	assert.Equal(t, outcome{requeue: true}, o)
	assert.Len(t, svc.got, 1)
}

func TestConsumer_ClosedChannel(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	close(deliveries)
	err := New(&flakyDeliverer{}, zap.NewNop()).Run(context.Background(), deliveries)
	assert.EqualError(t, err, "delivery channel closed")
}
