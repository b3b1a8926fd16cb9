package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/spam-gateway/internal/adapters/session"
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSQLiteStore(t *testing.T) *session.SQLiteStore {
	t.Helper()
	store, err := session.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreCreateGetUpdate(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	s := newSession("s1", time.Now(), core.StatusProcessing)
	s.ClassifierResult = &core.ClassifierResult{
		IsSpam:        true,
		Confidence:    0.7,
		Probabilities: map[string]float64{"normal": 0.3, "spam": 0.7},
	}
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, got.Status)
	require.NotNil(t, got.ClassifierResult)
	assert.Equal(t, 0.7, got.ClassifierResult.Confidence)

	now := time.Now()
	s.Status = core.StatusCompleted
	s.EndTime = &now
	require.NoError(t, store.Update(ctx, s))

	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	err = store.Update(ctx, newSession("missing", time.Now(), core.StatusProcessing))
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestSQLiteStoreListOrdersSubSecondStartTimes(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	// fractional parts chosen so a trimmed encoding would invert the order:
	// ".12" sorts after ".123" as text because 'Z' > '3'
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	older := newSession("a-older", base.Add(120*time.Millisecond), core.StatusCompleted)
	newer := newSession("b-newer", base.Add(123*time.Millisecond), core.StatusCompleted)
	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))

	sessions, total, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, sessions, 2)
	assert.Equal(t, "b-newer", sessions[0].SessionID)
	assert.Equal(t, "a-older", sessions[1].SessionID)
}

func TestSQLiteStoreListLimit(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, store.Create(ctx, newSession("oldest", base.Add(-2*time.Hour), core.StatusCompleted)))
	require.NoError(t, store.Create(ctx, newSession("middle", base.Add(-1*time.Hour), core.StatusCompleted)))
	require.NoError(t, store.Create(ctx, newSession("newest", base, core.StatusProcessing)))

	sessions, total, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, sessions, 2)
	assert.Equal(t, "newest", sessions[0].SessionID)
	assert.Equal(t, "middle", sessions[1].SessionID)
}

func TestSQLiteStoreCleanup(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newSession("old", time.Now().Add(-48*time.Hour), core.StatusCompleted)))
	require.NoError(t, store.Create(ctx, newSession("recent", time.Now(), core.StatusCompleted)))

	removed, remaining, err := store.Cleanup(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, remaining)

	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	_, err = store.Get(ctx, "recent")
	assert.NoError(t, err)
}

func TestSQLiteStoreStats(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newSession("p1", time.Now(), core.StatusProcessing)))
	require.NoError(t, store.Create(ctx, newSession("c1", time.Now(), core.StatusCompleted)))
	require.NoError(t, store.Create(ctx, newSession("e1", time.Now(), core.StatusError)))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Processing)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Error)
}
