package memsession

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
	apperrors "github.com/hosteldesk/hosteldesk/internal/errors"
)

func newSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-" + id,
		Email:     id + "@hostel.edu",
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	sess := newSession("s1", time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Email, got.Email)
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)})
	require.True(t, apperrors.IsValidation(err))

	err = store.Save(ctx, newSession("s1", -time.Minute))
	require.True(t, apperrors.IsValidation(err))
}

func TestStore_GetExpiredBehavesAsMissing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	sess := newSession("s1", 10*time.Millisecond)
	require.NoError(t, store.Save(ctx, sess))

	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "s1")
	require.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, store.Len())
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Save(ctx, newSession("s1", time.Hour)))
	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "")) // no-op

	_, err := store.Get(ctx, "s1")
	require.True(t, apperrors.IsNotFound(err))
}

func TestStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Save(ctx, newSession("live", time.Hour)))
	require.NoError(t, store.Save(ctx, newSession("dead-1", time.Minute)))
	require.NoError(t, store.Save(ctx, newSession("dead-2", time.Minute)))

	removed, err := store.DeleteExpired(ctx, time.Now().Add(30*time.Minute), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, "live")
	require.NoError(t, err)
}

func TestStore_DeleteExpiredRespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, newSession(id, time.Minute)))
	}

	removed, err := store.DeleteExpired(ctx, time.Now().Add(time.Hour), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())
}
