package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:" // cart:{user_id} -> hash of product id -> quantity
	CartTTL       = 30 * 24 * time.Hour
)

// CartRepository stores carts as Redis hashes. Every write refreshes the TTL.
type CartRepository struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client}
}

// Add increments the quantity of productID and returns the new quantity.
func (r *CartRepository) Add(ctx context.Context, userID, productID string, qty int) (int, error) {
	key := cartKey(userID)

	pipe := r.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, productID, int64(qty))
	pipe.Expire(ctx, key, CartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("add cart item: %w", err)
	}
	return int(incr.Val()), nil
}

// Set replaces the quantity of productID. A quantity of zero or less removes it.
func (r *CartRepository) Set(ctx context.Context, userID, productID string, qty int) error {
	if qty <= 0 {
		return r.Remove(ctx, userID, productID)
	}

	key := cartKey(userID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, productID, qty)
	pipe.Expire(ctx, key, CartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, productID string) error {
	if err := r.client.HDel(ctx, cartKey(userID), productID).Err(); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Items returns product id -> quantity. Entries that do not parse as a
// positive integer are skipped.
func (r *CartRepository) Items(ctx context.Context, userID string) (map[string]int, error) {
	raw, err := r.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	out := make(map[string]int, len(raw))
	for productID, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			continue
		}
		out[productID] = n
	}
	return out, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}
