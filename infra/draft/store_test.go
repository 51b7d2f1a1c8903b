package draft

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStoreWithClient(client, time.Hour, slog.Default()), mr
}

func TestStore_SaveAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	creatorID := uuid.New()

	draft := Draft{
		CreatorID:     creatorID,
		Provider:      "paystack",
		BankCode:      "058",
		AccountNumber: "0123456789",
		AccountName:   "Ngozi A",
	}
	require.NoError(t, store.Save(ctx, draft))

	got, err := store.Get(ctx, creatorID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "paystack", got.Provider)
	assert.Equal(t, "058", got.BankCode)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	creatorID := uuid.New()

	require.NoError(t, store.Save(ctx, Draft{CreatorID: creatorID, Provider: "stripe"}))
	require.NoError(t, store.Delete(ctx, creatorID))

	got, err := store.Get(ctx, creatorID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_DraftExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	creatorID := uuid.New()

	require.NoError(t, store.Save(ctx, Draft{CreatorID: creatorID, Provider: "paystack"}))

	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, creatorID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
