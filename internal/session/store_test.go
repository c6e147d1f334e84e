package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := models.SessionUser{ID: 7, Name: "Ana", Email: "ana@uni.edu", Role: models.RoleAdmin}
	require.NoError(t, store.Save(ctx, user))

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, user, *loaded)
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, models.SessionUser{ID: 7, Name: "Ana"}))
	require.NoError(t, store.Save(ctx, models.SessionUser{ID: 7, Name: "Ana Maria"}))

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", loaded.Name)
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, models.SessionUser{ID: 7}))
	require.NoError(t, store.Clear(ctx, 7))

	_, err := store.Load(ctx, 7)
	assert.Error(t, err)
}

func TestSnapshotKeyPrefix(t *testing.T) {
	assert.Equal(t, "authUser:42", snapshotKey(42))
}
