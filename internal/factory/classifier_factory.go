package factory

import (
	"fmt"

	"github.com/mikey/spam-gateway/internal/adapters/classifier"
	"github.com/mikey/spam-gateway/internal/adapters/limiter"
	"github.com/mikey/spam-gateway/internal/config"
	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// ClassifierFactory creates primary classifiers
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClassifier creates the configured classifier, wrapped with bounded
// concurrency and a per-call timeout.
func (f *ClassifierFactory) CreateClassifier() (core.TextClassifier, error) {
	timeout, err := f.cfg.GetDuration("limits.inference_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid inference timeout: %w", err)
	}

	classifierCfg := f.cfg.GetClassifier()

	var inner core.TextClassifier
	switch classifierCfg.Provider {
	case "http":
		inner = classifier.NewHTTPClassifier(
			classifierCfg.Endpoint, classifierCfg.ModelName, timeout, f.logger)
	case "keyword":
		inner = classifier.NewKeywordClassifier(f.logger)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}

	return limiter.NewClassifier(inner,
		f.cfg.GetInt("limits.max_concurrent_inference"), timeout), nil
}
