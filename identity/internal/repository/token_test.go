package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adelbaev/lending-service/identity/internal/errs"
	"github.com/adelbaev/lending-service/identity/internal/repository"
)

func newTestStore(t *testing.T) (repository.TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return repository.NewTokenStore(client), mr
}

func TestTokenStore_Redeem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, "tok-1", "user-1", time.Hour))

	userID, err := store.Redeem(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)

	// single use: the same token must not work twice
	_, err = store.Redeem(ctx, "tok-1")
	require.ErrorIs(t, err, errs.ErrInvalidRefresh)
}

func TestTokenStore_RedeemUnknown(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	_, err := store.Redeem(context.Background(), "never-issued")
	require.ErrorIs(t, err, errs.ErrInvalidRefresh)
}

func TestTokenStore_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, store.Save(ctx, "tok-2", "user-2", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Redeem(ctx, "tok-2")
	require.ErrorIs(t, err, errs.ErrInvalidRefresh)
}

func TestTokenStore_Revoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, "tok-3", "user-3", time.Hour))
	require.NoError(t, store.Revoke(ctx, "tok-3"))

	_, err := store.Redeem(ctx, "tok-3")
	require.ErrorIs(t, err, errs.ErrInvalidRefresh)
}
