package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the SessionStore interface.
// The registry map is guarded against concurrent structural mutation; the
// stored sessions are copied on the way in and out so callers never share
// mutable state with the registry.
type MemoryStore struct {
	sessions map[string]*core.ProcessingSession
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*core.ProcessingSession),
		logger:   logger,
	}
}

// Create registers a new session
func (s *MemoryStore) Create(ctx context.Context, session *core.ProcessingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.SessionID] = cloneSession(session)
	s.logger.Debug("Session created", zap.String("session_id", session.SessionID))
	return nil
}

// Get retrieves a session by id
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*core.ProcessingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// Update persists the current state of a session
func (s *MemoryStore) Update(ctx context.Context, session *core.ProcessingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.SessionID]; !ok {
		return core.ErrSessionNotFound
	}
	s.sessions[session.SessionID] = cloneSession(session)
	return nil
}

// List returns up to limit sessions ordered by start time descending
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*core.ProcessingSession, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*core.ProcessingSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		all = append(all, cloneSession(session))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].StartTime.After(all[j].StartTime)
	})

	total := len(all)
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

// Cleanup removes sessions older than maxAge
func (s *MemoryStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, session := range s.sessions {
		if session.StartTime.Before(cutoff) {
			delete(s.sessions, id)
			removed++
			s.logger.Debug("Session removed by cleanup", zap.String("session_id", id))
		}
	}

	s.logger.Info("Session cleanup completed",
		zap.Int("removed", removed),
		zap.Int("remaining", len(s.sessions)))
	return removed, len(s.sessions), nil
}

// Stats returns session counts grouped by lifecycle state
func (s *MemoryStore) Stats(ctx context.Context) (*core.SessionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &core.SessionStats{Total: len(s.sessions)}
	for _, session := range s.sessions {
		switch session.Status {
		case core.StatusProcessing:
			stats.Processing++
		case core.StatusCompleted:
			stats.Completed++
		case core.StatusError:
			stats.Error++
		}
	}
	return stats, nil
}

// cloneSession copies a session deeply enough that the registry and its
// callers never alias each other's state
func cloneSession(in *core.ProcessingSession) *core.ProcessingSession {
	out := *in
	out.ProcessingSteps = append([]string(nil), in.ProcessingSteps...)
	if in.ClassifierResult != nil {
		cr := *in.ClassifierResult
		if in.ClassifierResult.Probabilities != nil {
			cr.Probabilities = make(map[string]float64, len(in.ClassifierResult.Probabilities))
			for k, v := range in.ClassifierResult.Probabilities {
				cr.Probabilities[k] = v
			}
		}
		out.ClassifierResult = &cr
	}
	if in.VerdictResult != nil {
		vr := *in.VerdictResult
		out.VerdictResult = &vr
	}
	if in.EndTime != nil {
		t := *in.EndTime
		out.EndTime = &t
	}
	return &out
}
