package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-gateway/internal/config"
	"go.uber.org/zap"
)

// Server wraps the HTTP server with graceful shutdown
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer creates an HTTP server for the given router
func NewServer(cfg *config.Config, router *gin.Engine, logger *zap.Logger) *Server {
	serverCfg := cfg.GetServer()

	shutdownTimeout := 10 * time.Second
	if serverCfg.ShutdownTimeout != "" {
		if parsed, err := time.ParseDuration(serverCfg.ShutdownTimeout); err == nil {
			shutdownTimeout = parsed
		}
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    serverCfg.ListenAddress,
			Handler: router,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down, draining in-flight requests
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
