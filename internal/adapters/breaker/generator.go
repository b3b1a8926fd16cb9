// Package breaker shields the verdict generator behind a circuit breaker so
// a failing model backend sheds load quickly instead of queueing requests.
package breaker

import (
	"context"
	"time"

	"github.com/mikey/spam-gateway/internal/core"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Generator wraps a TextGenerator with a circuit breaker
type Generator struct {
	inner core.TextGenerator
	cb    *gobreaker.CircuitBreaker
}

// NewGenerator creates a circuit-broken generator. The breaker opens after
// maxFailures consecutive failures and probes again after openTimeout.
func NewGenerator(inner core.TextGenerator, maxFailures uint32, openTimeout time.Duration, logger *zap.Logger) *Generator {
	settings := gobreaker.Settings{
		Name:    "verdict-generator",
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Generator{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate runs the wrapped generator through the breaker
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.cb.Execute(func() (interface{}, error) {
		return g.inner.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// ModelName identifies the wrapped model
func (g *Generator) ModelName() string {
	return g.inner.ModelName()
}

// Close releases the wrapped generator's resources if it holds any
func (g *Generator) Close() error {
	if closer, ok := g.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
