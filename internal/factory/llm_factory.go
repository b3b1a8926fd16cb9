package factory

import (
	"fmt"

	"github.com/mikey/spam-gateway/internal/adapters/bedrock"
	"github.com/mikey/spam-gateway/internal/adapters/breaker"
	"github.com/mikey/spam-gateway/internal/adapters/gemini"
	"github.com/mikey/spam-gateway/internal/adapters/limiter"
	"github.com/mikey/spam-gateway/internal/adapters/openai"
	"github.com/mikey/spam-gateway/internal/config"
	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates verdict generators
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates the configured provider's generator, wrapped with
// bounded concurrency, a per-call timeout and a circuit breaker.
func (f *LLMFactory) CreateGenerator() (core.TextGenerator, error) {
	var (
		generator core.TextGenerator
		err       error
	)

	llmConfig := f.cfg.GetLLM()
	switch llmConfig.Provider {
	case "bedrock":
		generator, err = bedrock.NewFactory(f.cfg, f.logger).CreateGenerator()
	case "gemini":
		generator, err = gemini.NewFactory(f.cfg, f.logger).CreateGenerator()
	case "openai":
		generator, err = openai.NewFactory(f.cfg, f.logger).CreateGenerator()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
	if err != nil {
		return nil, err
	}

	timeout, err := f.cfg.GetDuration("limits.inference_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid inference timeout: %w", err)
	}
	openTimeout, err := f.cfg.GetDuration("limits.breaker_open_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid breaker open timeout: %w", err)
	}

	generator = limiter.NewGenerator(generator,
		f.cfg.GetInt("limits.max_concurrent_inference"), timeout)
	generator = breaker.NewGenerator(generator,
		uint32(f.cfg.GetInt("limits.breaker_max_failures")), openTimeout, f.logger)

	return generator, nil
}
