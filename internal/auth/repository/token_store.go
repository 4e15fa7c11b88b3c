package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix   = "auth:refresh:" // auth:refresh:{token} -> user id
	userTokenSetPrefix = "auth:user:"    // auth:user:{user_id}:refresh -> set of tokens
)

// RefreshTokenStore keeps opaque refresh tokens in Redis.
type RefreshTokenStore struct {
	client *redis.Client
}

func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Save stores token for userID with the given lifetime.
func (s *RefreshTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	setKey := userTokenSetKey(userID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, refreshKey(token), userID, ttl)
	pipe.SAdd(ctx, setKey, token)
	pipe.Expire(ctx, setKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume deletes token and returns the user it belonged to.
// A token can be consumed once.
func (s *RefreshTokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}

	s.client.SRem(ctx, userTokenSetKey(userID), token)
	return userID, nil
}

// Revoke deletes token if it exists.
func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	_, err := s.Consume(ctx, token)
	if err == domain.ErrInvalidToken {
		return nil
	}
	return err
}

// RevokeAll deletes every refresh token of userID.
func (s *RefreshTokenStore) RevokeAll(ctx context.Context, userID string) error {
	setKey := userTokenSetKey(userID)

	tokens, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("list refresh tokens: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, t := range tokens {
		pipe.Del(ctx, refreshKey(t))
	}
	pipe.Del(ctx, setKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

// PruneExpired drops index entries whose token key has already expired.
// It returns the number of entries removed.
func (s *RefreshTokenStore) PruneExpired(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, userTokenSetPrefix+"*:refresh", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		tokens, err := s.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("list %s: %w", setKey, err)
		}

		for _, t := range tokens {
			n, err := s.client.Exists(ctx, refreshKey(t)).Result()
			if err != nil {
				return removed, err
			}
			if n == 0 {
				s.client.SRem(ctx, setKey, t)
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan refresh index: %w", err)
	}
	return removed, nil
}

func refreshKey(token string) string {
	return refreshKeyPrefix + token
}

func userTokenSetKey(userID string) string {
	return fmt.Sprintf("%s%s:refresh", userTokenSetPrefix, strings.TrimSpace(userID))
}
