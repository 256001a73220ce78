package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGetSession(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "a@example.com", RoleUser)

	session := &Session{
		ID:        "opaque-token-1",
		UserID:    user.ID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateSession(ctx, session))

	retrieved, err := store.GetSession(ctx, "opaque-token-1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.UserID)
}

func TestStore_GetSession_Expired(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "a@example.com", RoleUser)

	session := &Session{
		ID:        "expired-token",
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.CreateSession(ctx, session))

	_, err := store.GetSession(ctx, "expired-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_GetSession_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetSession(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_DeleteSession(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "a@example.com", RoleUser)

	session := &Session{
		ID:        "to-delete",
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.CreateSession(ctx, session))
	require.NoError(t, store.DeleteSession(ctx, "to-delete"))

	_, err := store.GetSession(ctx, "to-delete")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting a missing session is not an error.
	assert.NoError(t, store.DeleteSession(ctx, "to-delete"))
}

func TestStore_DeleteExpiredSessions(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	user := createTestUser(t, store, "a@example.com", RoleUser)

	live := &Session{
		ID:        "live",
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	dead := &Session{
		ID:        "dead",
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.CreateSession(ctx, live))
	require.NoError(t, store.CreateSession(ctx, dead))

	removed, err := store.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.GetSession(ctx, "live")
	assert.NoError(t, err)
}
