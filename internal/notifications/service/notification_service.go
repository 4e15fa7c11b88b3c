package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/domain"
	orderdomain "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/domain"
)

type Inbox interface {
	Push(ctx context.Context, userID string, n domain.Notification) error
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	Clear(ctx context.Context, userID string) error
}

// ErrMalformedEvent marks events that can never be delivered.
var ErrMalformedEvent = errors.New("malformed order event")

type NotificationService struct {
	inbox Inbox
}

func NewNotificationService(inbox Inbox) *NotificationService {
	return &NotificationService{inbox: inbox}
}

// Deliver renders ev and stores it in the owner's inbox.
func (s *NotificationService) Deliver(ctx context.Context, ev orderdomain.Event) error {
	if ev.UserID == "" || ev.OrderID == "" {
		return fmt.Errorf("%w: missing user or order id", ErrMalformedEvent)
	}
	return s.inbox.Push(ctx, ev.UserID, domain.FromEvent(ev))
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.inbox.List(ctx, userID)
}

func (s *NotificationService) Clear(ctx context.Context, userID string) error {
	return s.inbox.Clear(ctx, userID)
}
