package domain

import (
	"testing"

	orderdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
	"github.com/stretchr/testify/assert"
)

func TestFromEvent(t *testing.T) {
	tests := map[string]struct {
		ev   orderdomain.Event
		want string
	}{
		"created": {
			ev:   orderdomain.Event{Type: orderdomain.EventCreated, OrderNumber: "ORD_20260314_001", TotalAmount: 45},
			want: "Order ORD_20260314_001 placed, total 45.00",
		},
		"status": {
			ev:   orderdomain.Event{Type: orderdomain.EventStatusChanged, OrderNumber: "ORD_20260314_001", Status: "shipped"},
			want: "Order ORD_20260314_001 is now shipped",
		},
		"payment": {
			ev:   orderdomain.Event{Type: orderdomain.EventPaymentChanged, OrderNumber: "ORD_20260314_001", PaymentStatus: "paid"},
			want: "Payment for order ORD_20260314_001 is paid",
		},
		"unknown type": {
			ev:   orderdomain.Event{Type: "refunded", OrderNumber: "ORD_20260314_001"},
			want: "Order ORD_20260314_001 updated",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			n := FromEvent(tc.ev)
			assert.Equal(t, tc.want, n.Message)
			assert.Equal(t, tc.ev.Type, n.Type)
		})
	}
}
