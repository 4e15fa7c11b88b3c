package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestScheduler_RunsAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	var runs atomic.Int32
	s, err := NewScheduler(zap.NewNop(), Job{
		Name: "tick",
		Spec: "* * * * * *",
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("failures are logged, not fatal")
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(zap.NewNop(), Job{Name: "bad", Spec: "every ten minutes", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestBuiltInSpecsParse(t *testing.T) {
	for _, spec := range []string{StaleOrdersSpec, TokenSweepSpec} {
		_, err := specParser.Parse(spec)
		assert.NoError(t, err, spec)
	}
}

type fakeOrders struct {
	ttl time.Duration
	n   int
}

func (f *fakeOrders) CancelStale(_ context.Context, ttl time.Duration) (int, error) {
	f.ttl = ttl
	return f.n, nil
}

type fakeTokens struct{ err error }

func (f fakeTokens) PruneExpired(context.Context) (int, error) { return 3, f.err }

func TestJobs(t *testing.T) {
	orders := &fakeOrders{n: 2}
	job := CancelStaleOrders(orders, 48*time.Hour, zap.NewNop())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 48*time.Hour, orders.ttl)
	assert.Equal(t, "cancel-stale-orders", job.Name)

	sweep := PruneRefreshTokens(fakeTokens{err: errors.New("redis down")}, zap.NewNop())
	assert.EqualError(t, sweep.Run(context.Background()), "redis down")
}
