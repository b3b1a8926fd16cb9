package core

import (
	"context"
	"time"
)

// TextClassifier defines the interface for the primary spam classifier
type TextClassifier interface {
	// Classify runs spam classification over raw email text
	Classify(ctx context.Context, text string) (*ClassifierResult, error)

	// ModelName identifies the underlying model for health reporting
	ModelName() string
}

// TextGenerator defines the interface for the verdict generation model
type TextGenerator interface {
	// Generate produces free-form text for a verdict prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName identifies the underlying model for health reporting
	ModelName() string
}

// ToolExecutor dispatches a named generation tool with keyword arguments
type ToolExecutor interface {
	// Execute runs the named tool and returns its raw text output
	Execute(ctx context.Context, name string, args map[string]interface{}) (string, error)
}

// SessionStore defines the interface for the processing session registry
type SessionStore interface {
	// Create registers a new session keyed by its session id
	Create(ctx context.Context, session *ProcessingSession) error

	// Get retrieves a session by id, or ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (*ProcessingSession, error)

	// Update persists the current state of a session
	Update(ctx context.Context, session *ProcessingSession) error

	// List returns up to limit sessions ordered by start time descending,
	// plus the total session count. A non-positive limit returns all sessions.
	List(ctx context.Context, limit int) ([]*ProcessingSession, int, error)

	// Cleanup removes sessions older than maxAge and returns the number
	// removed plus the number remaining. This is the only deletion path.
	Cleanup(ctx context.Context, maxAge time.Duration) (removed int, remaining int, err error)

	// Stats returns session counts grouped by lifecycle state
	Stats(ctx context.Context) (*SessionStats, error)
}
