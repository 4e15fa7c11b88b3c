package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	StaleOrdersSpec   = "0 */10 * * * *"
	TokenSweepSpec    = "0 0 * * * *"
	staleOrdersJob    = "cancel-stale-orders"
	refreshTokenSweep = "prune-refresh-tokens"
)

type StaleOrderCanceller interface {
	CancelStale(ctx context.Context, ttl time.Duration) (int, error)
}

type TokenPruner interface {
	PruneExpired(ctx context.Context) (int, error)
}

// CancelStaleOrders cancels orders left pending with payment pending for
// longer than ttl.
func CancelStaleOrders(orders StaleOrderCanceller, ttl time.Duration, log *zap.Logger) Job {
	return Job{
		Name: staleOrdersJob,
		Spec: StaleOrdersSpec,
		Run: func(ctx context.Context) error {
			n, err := orders.CancelStale(ctx, ttl)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("cancelled stale orders", zap.Int("count", n), zap.Duration("ttl", ttl))
			}
			return nil
		},
	}
}

func PruneRefreshTokens(store TokenPruner, log *zap.Logger) Job {
	return Job{
		Name: refreshTokenSweep,
		Spec: TokenSweepSpec,
		Run: func(ctx context.Context) error {
			n, err := store.PruneExpired(ctx)
			if err != nil {
				return err
			}
			log.Debug("pruned refresh token index", zap.Int("removed", n))
			return nil
		},
	}
}
