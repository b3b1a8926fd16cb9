package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/mikey/spam-gateway/internal/api"
	"github.com/mikey/spam-gateway/internal/config"
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/mikey/spam-gateway/internal/factory"
	"github.com/mikey/spam-gateway/internal/logging"
	"github.com/mikey/spam-gateway/internal/metrics"
	"github.com/mikey/spam-gateway/internal/tools"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.TextClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register verdict generator
	if err := container.Provide(func(f *factory.LLMFactory) (core.TextGenerator, error) {
		return f.CreateGenerator()
	}); err != nil {
		return nil, err
	}

	// Register session store
	if err := container.Provide(func(f *factory.StoreFactory) (core.SessionStore, error) {
		return f.CreateSessionStore()
	}); err != nil {
		return nil, err
	}

	// Register routing policy from configured thresholds
	if err := container.Provide(func(cfg *config.Config) *core.RoutingPolicy {
		gatewayCfg := cfg.GetGateway()
		return core.NewRoutingPolicy(gatewayCfg.ImmediateThreshold, gatewayCfg.QuickThreshold)
	}); err != nil {
		return nil, err
	}

	// Register prompt builder
	if err := container.Provide(core.NewPromptBuilder); err != nil {
		return nil, err
	}

	// Register tool registry, also exposed as the core executor port
	if err := container.Provide(tools.NewRegistry); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *tools.Registry) core.ToolExecutor {
		return r
	}); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return nil, err
	}
	if err := container.Provide(func(reg *prometheus.Registry) *metrics.Recorder {
		return metrics.NewRecorder(reg)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(r *metrics.Recorder) core.MetricsRecorder {
		return r
	}); err != nil {
		return nil, err
	}

	// Register verdict agent and gateway service
	if err := container.Provide(core.NewVerdictAgent); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewGatewayService); err != nil {
		return nil, err
	}

	// Register HTTP layer
	if err := container.Provide(api.NewHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(api.NewRouter); err != nil {
		return nil, err
	}
	if err := container.Provide(api.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}
