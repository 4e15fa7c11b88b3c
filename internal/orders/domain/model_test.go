package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusPending, StatusDelivered, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range tests {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentPaid))
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentFailed))
	assert.False(t, CanTransitionPayment(PaymentPaid, PaymentPending))
	assert.False(t, CanTransitionPayment(PaymentFailed, PaymentPaid))
}

func TestOrderNumber(t *testing.T) {
	day := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "ORD_20260314_001", OrderNumber(day, 1))
	assert.Equal(t, "ORD_20260314_042", OrderNumber(day, 42))
	assert.Equal(t, "ORD_20260314_1234", OrderNumber(day, 1234))
}

func TestEventRoutingKey(t *testing.T) {
	o := &Order{ID: "o1", UserID: "u1", Status: StatusShipped}
	ev := NewEvent(EventStatusChanged, o, time.Date(2026, 3, 14, 10, 0, 0, 0, time.FixedZone("IST", 19800)))

	assert.Equal(t, "order.status_changed", ev.RoutingKey())
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())
	assert.Equal(t, StatusShipped, ev.Status)
}
