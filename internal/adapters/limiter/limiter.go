// Package limiter bounds concurrent model-inference calls so compute-bound
// work never saturates the process, and puts a deadline on every call so a
// hung model surfaces as a stage failure instead of a stuck request.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/spam-gateway/internal/core"
)

// Limiter is a semaphore with a per-call timeout
type Limiter struct {
	slots   chan struct{}
	timeout time.Duration
}

// New creates a limiter allowing maxConcurrent in-flight calls
func New(maxConcurrent int, timeout time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		timeout: timeout,
	}
}

// acquire blocks until a slot is free or the context is done
func (l *Limiter) acquire(ctx context.Context) (release func(), err error) {
	select {
	case l.slots <- struct{}{}:
		return func() { <-l.slots }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for inference slot: %w", ctx.Err())
	}
}

// Classifier wraps a TextClassifier with bounded concurrency and a timeout
type Classifier struct {
	inner   core.TextClassifier
	limiter *Limiter
}

// NewClassifier creates a limited classifier
func NewClassifier(inner core.TextClassifier, maxConcurrent int, timeout time.Duration) *Classifier {
	return &Classifier{
		inner:   inner,
		limiter: New(maxConcurrent, timeout),
	}
}

// Classify runs the wrapped classifier under the limiter
func (c *Classifier) Classify(ctx context.Context, text string) (*core.ClassifierResult, error) {
	release, err := c.limiter.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, c.limiter.timeout)
	defer cancel()

	result, err := c.inner.Classify(ctx, text)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("classifier timed out after %s: %w", c.limiter.timeout, err)
		}
		return nil, err
	}
	return result, nil
}

// ModelName identifies the wrapped model
func (c *Classifier) ModelName() string {
	return c.inner.ModelName()
}

// Generator wraps a TextGenerator with bounded concurrency and a timeout
type Generator struct {
	inner   core.TextGenerator
	limiter *Limiter
}

// NewGenerator creates a limited generator
func NewGenerator(inner core.TextGenerator, maxConcurrent int, timeout time.Duration) *Generator {
	return &Generator{
		inner:   inner,
		limiter: New(maxConcurrent, timeout),
	}
}

// Generate runs the wrapped generator under the limiter
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	release, err := g.limiter.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, g.limiter.timeout)
	defer cancel()

	text, err := g.inner.Generate(ctx, prompt)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("generator timed out after %s: %w", g.limiter.timeout, err)
		}
		return "", err
	}
	return text, nil
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
