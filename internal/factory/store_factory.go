package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/spam-gateway/internal/adapters/session"
	"github.com/mikey/spam-gateway/internal/config"
	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates session stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new session store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSessionStore creates a session store based on the configuration
func (f *StoreFactory) CreateSessionStore() (core.SessionStore, error) {
	sessionsCfg := f.cfg.GetSessions()

	switch sessionsCfg.Store {
	case "memory":
		return session.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(sessionsCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return session.NewSQLiteStore(sessionsCfg.SQLitePath, f.logger)
	case "mysql":
		return session.NewMySQLStore(sessionsCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", sessionsCfg.Store)
	}
}
