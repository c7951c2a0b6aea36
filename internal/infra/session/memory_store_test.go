package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistore/internal/domain/entity"
	"medistore/internal/domain/service"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryStore(func() time.Time { return now })

	userID := uuid.New()
	first := &entity.SessionRecord{ID: uuid.New(), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	second := &entity.SessionRecord{ID: uuid.New(), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	other := &entity.SessionRecord{ID: uuid.New(), UserID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	for _, r := range []*entity.SessionRecord{first, second, other} {
		require.NoError(t, store.Create(ctx, r))
	}

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx, first.ID))

	require.NoError(t, store.DeleteByUser(ctx, userID))
	_, err = store.Get(ctx, second.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = store.Get(ctx, other.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newMemoryStore(func() time.Time { return now })

	record := &entity.SessionRecord{ID: uuid.New(), UserID: uuid.New(), ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, store.Create(ctx, record))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, record.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	require.NoError(t, store.Create(ctx, &entity.SessionRecord{ID: uuid.New(), ExpiresAt: now.Add(time.Minute)}))
	assert.NotContains(t, store.sessions, record.ID)
}

func TestRedisStore_Keys(t *testing.T) {
	store := NewRedisStore(nil, "").(*redisStore)
	id := uuid.MustParse("6f1c1f0e-6a43-4b4f-9d4a-7d2b1f2d8e10")

	assert.Equal(t, "medistore:session:"+id.String(), store.sessionKey(id))
	assert.Equal(t, "medistore:user_sessions:"+id.String(), store.userKey(id))
}
