package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product is no longer available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidStatus      = errors.New("unknown status")
	ErrForbidden          = errors.New("not allowed")
	ErrValidation         = errors.New("validation failed")
)

var statusFlow = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

var paymentFlow = map[string][]string{
	PaymentPending: {PaymentPaid, PaymentFailed},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	return allowed(statusFlow, from, to)
}

// CanTransitionPayment reports whether a payment status may change.
func CanTransitionPayment(from, to string) bool {
	return allowed(paymentFlow, from, to)
}

func allowed(flow map[string][]string, from, to string) bool {
	for _, next := range flow[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed
}

// OrderNumber formats the daily sequence as ORD_YYYYMMDD_NNN.
func OrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("ORD_%s_%03d", day.Format("20060102"), seq)
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Item is a snapshot of the product at purchase time.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type Order struct {
	ID              string     `json:"id"`
	OrderNumber     string     `json:"orderNumber"`
	UserID          string     `json:"userId"`
	Items           []Item     `json:"items"`
	TotalAmount     float64    `json:"totalAmount"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"paymentStatus"`
	ShippingAddress Address    `json:"shippingAddress"`
	PaidAt          *time.Time `json:"paidAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Event types published on the order exchange as order.<type>.
const (
	EventCreated        = "created"
	EventStatusChanged  = "status_changed"
	EventPaymentChanged = "payment_changed"
)

type Event struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   float64   `json:"totalAmount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// RoutingKey is the topic key the event is published under.
func (e Event) RoutingKey() string {
	return "order." + e.Type
}

func NewEvent(typ string, o *Order, at time.Time) Event {
	return Event{
		Type:          typ,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		OccurredAt:    at.UTC(),
	}
}
