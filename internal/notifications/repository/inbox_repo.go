package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/domain"
	"github.com/redis/go-redis/v9"
)

const (
	inboxKeyPrefix = "notif:" // notif:{user_id} -> list of JSON notifications, newest first
	InboxLimit     = 50
	InboxTTL       = 30 * 24 * time.Hour
)

type InboxRepository struct {
	client *redis.Client
}

func NewInboxRepository(client *redis.Client) *InboxRepository {
	return &InboxRepository{client: client}
}

// Push prepends n to the user's inbox, keeping the newest InboxLimit entries.
func (r *InboxRepository) Push(ctx context.Context, userID string, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	key := inboxKey(userID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, body)
	pipe.LTrim(ctx, key, 0, InboxLimit-1)
	pipe.Expire(ctx, key, InboxTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

// List returns the inbox newest first. Undecodable entries are skipped.
func (r *InboxRepository) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	raw, err := r.client.LRange(ctx, inboxKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]domain.Notification, 0, len(raw))
	for _, s := range raw {
		var n domain.Notification
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *InboxRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, inboxKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func inboxKey(userID string) string {
	return inboxKeyPrefix + userID
}
