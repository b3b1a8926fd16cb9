package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the SessionStore interface,
// mirroring the SQLite schema for deployments with a shared database.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL session store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS gateway_sessions (
			session_id VARCHAR(36) PRIMARY KEY,
			status VARCHAR(16) NOT NULL,
			start_time VARCHAR(35) NOT NULL,
			data MEDIUMTEXT NOT NULL,
			INDEX idx_sessions_start_time (start_time)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// Create registers a new session
func (s *MySQLStore) Create(ctx context.Context, session *core.ProcessingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gateway_sessions (session_id, status, start_time, data)
		VALUES (?, ?, ?, ?)
	`, session.SessionID, string(session.Status), session.StartTime.UTC().Format(timeLayout), string(data))
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by id
func (s *MySQLStore) Get(ctx context.Context, sessionID string) (*core.ProcessingSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM gateway_sessions WHERE session_id = ?
	`, sessionID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return decodeSession(data)
}

// Update persists the current state of a session
func (s *MySQLStore) Update(ctx context.Context, session *core.ProcessingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE gateway_sessions SET status = ?, data = ? WHERE session_id = ?
	`, string(session.Status), string(data), session.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

// List returns up to limit sessions ordered by start time descending
func (s *MySQLStore) List(ctx context.Context, limit int) ([]*core.ProcessingSession, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gateway_sessions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `SELECT data FROM gateway_sessions ORDER BY start_time DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*core.ProcessingSession
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session row: %w", err)
		}
		session, err := decodeSession(data)
		if err != nil {
			s.logger.Error("Skipping undecodable session row", zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, total, rows.Err()
}

// Cleanup removes sessions older than maxAge
func (s *MySQLStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, int, error) {
	cutoff := time.Now().Add(-maxAge).UTC().Format(timeLayout)

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM gateway_sessions WHERE start_time < ?
	`, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	removed, _ := res.RowsAffected()

	var remaining int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gateway_sessions`).Scan(&remaining); err != nil {
		return int(removed), 0, fmt.Errorf("failed to count remaining sessions: %w", err)
	}

	s.logger.Info("Session cleanup completed",
		zap.Int64("removed", removed),
		zap.Int("remaining", remaining))
	return int(removed), remaining, nil
}

// Stats returns session counts grouped by lifecycle state
func (s *MySQLStore) Stats(ctx context.Context) (*core.SessionStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM gateway_sessions GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session stats: %w", err)
	}
	defer rows.Close()

	stats := &core.SessionStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.Total += count
		switch core.SessionStatus(status) {
		case core.StatusProcessing:
			stats.Processing = count
		case core.StatusCompleted:
			stats.Completed = count
		case core.StatusError:
			stats.Error = count
		}
	}
	return stats, rows.Err()
}

// Close releases the underlying database handle
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
