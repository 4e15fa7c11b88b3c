package domain

import (
	"fmt"
	"time"

	orderdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
)

type Notification struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromEvent renders the inbox entry for an order event.
func FromEvent(ev orderdomain.Event) Notification {
	return Notification{
		Type:        ev.Type,
		OrderID:     ev.OrderID,
		OrderNumber: ev.OrderNumber,
		Message:     render(ev),
		CreatedAt:   ev.OccurredAt,
	}
}

func render(ev orderdomain.Event) string {
	switch ev.Type {
	case orderdomain.EventCreated:
		return fmt.Sprintf("Order %s placed, total %.2f", ev.OrderNumber, ev.TotalAmount)
	case orderdomain.EventStatusChanged:
		return fmt.Sprintf("Order %s is now %s", ev.OrderNumber, ev.Status)
	case orderdomain.EventPaymentChanged:
		return fmt.Sprintf("Payment for order %s is %s", ev.OrderNumber, ev.PaymentStatus)
	default:
		return fmt.Sprintf("Order %s updated", ev.OrderNumber)
	}
}
