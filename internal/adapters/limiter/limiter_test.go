package limiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mikey/spam-gateway/internal/adapters/limiter"
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowGenerator struct {
	delay     time.Duration
	inFlight  int32
	maxSeen   int32
	generated int32
}

func (g *slowGenerator) Generate(ctx context.Context, _ string) (string, error) {
	current := atomic.AddInt32(&g.inFlight, 1)
	defer atomic.AddInt32(&g.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&g.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&g.maxSeen, seen, current) {
			break
		}
	}

	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	atomic.AddInt32(&g.generated, 1)
	return "ok", nil
}

func (g *slowGenerator) ModelName() string { return "slow" }

func TestGeneratorBoundsConcurrency(t *testing.T) {
	inner := &slowGenerator{delay: 20 * time.Millisecond}
	limited := limiter.NewGenerator(inner, 2, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := limited.Generate(context.Background(), "p")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), atomic.LoadInt32(&inner.generated))
	assert.LessOrEqual(t, atomic.LoadInt32(&inner.maxSeen), int32(2))
}

func TestGeneratorTimeout(t *testing.T) {
	inner := &slowGenerator{delay: time.Second}
	limited := limiter.NewGenerator(inner, 1, 10*time.Millisecond)

	_, err := limited.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestGeneratorRespectsCallerCancellation(t *testing.T) {
	inner := &slowGenerator{delay: time.Second}
	limited := limiter.NewGenerator(inner, 1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// first call holds the only slot, the cancelled caller fails waiting
	go limited.Generate(context.Background(), "p")
	time.Sleep(5 * time.Millisecond)

	_, err := limited.Generate(ctx, "p")
	require.Error(t, err)
}

func TestGeneratorModelNamePassthrough(t *testing.T) {
	limited := limiter.NewGenerator(&slowGenerator{}, 1, time.Second)
	assert.Equal(t, "slow", limited.ModelName())
}

var _ core.TextGenerator = (*limiter.Generator)(nil)
