package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/spam-gateway/internal/adapters/smtpingress"
	"github.com/mikey/spam-gateway/internal/api"
	"github.com/mikey/spam-gateway/internal/config"
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/mikey/spam-gateway/internal/di"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	server *api.Server,
	gateway *core.GatewayService,
	generator core.TextGenerator,
	sessions core.SessionStore,
) error {
	defer logger.Sync()

	// Start the optional SMTP ingress
	var ingress *smtpingress.Ingress
	smtpCfg := cfg.GetSMTP()
	if smtpCfg.Enabled {
		ingress = smtpingress.NewIngress(
			gateway,
			logger,
			smtpCfg.ListenAddress,
			smtpCfg.RelayAddress,
			smtpCfg.BlockSpam,
			smtpCfg.SpamHeader,
			smtpCfg.ConfidenceHeader,
			smtpCfg.PathHeader,
		)
		if err := ingress.Start(); err != nil {
			logger.Error("Failed to start SMTP ingress", zap.Error(err))
			return err
		}
	}

	// Start the HTTP server
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			return err
		}
	}

	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	if ingress != nil {
		if err := ingress.Stop(); err != nil {
			logger.Error("Failed to stop SMTP ingress", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := generator.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close generator", zap.Error(err))
		}
	}
	if closer, ok := sessions.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close session store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
