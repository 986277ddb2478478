package tokenstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/tokenstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*tokenstore.RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return tokenstore.NewRedisRepo(client), mr
}

// repoContract runs the behaviour every Repo implementation shares.
func repoContract(t *testing.T, repo tokenstore.Repo) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, "tab-missing")
		require.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("set get delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "tab-1", "token-abc", time.Hour))
		token, err := repo.Get(ctx, "tab-1")
		require.NoError(t, err)
		require.Equal(t, "token-abc", token)

		require.NoError(t, repo.Delete(ctx, "tab-1"))
		_, err = repo.Get(ctx, "tab-1")
		require.True(t, errors.Is(err, errors.ErrNotFound))
		require.NoError(t, repo.Delete(ctx, "tab-1"))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		require.Error(t, repo.Set(ctx, "", "x", 0))
	})

	t.Run("tab adapter", func(t *testing.T) {
		tab := tokenstore.ForTab(repo, "tab-2", time.Hour)
		token, err := tab.Load(ctx)
		require.NoError(t, err)
		require.Empty(t, token)

		require.NoError(t, tab.Save(ctx, "token-xyz"))
		token, err = tab.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "token-xyz", token)

		require.NoError(t, tab.Clear(ctx))
		token, err = tab.Load(ctx)
		require.NoError(t, err)
		require.Empty(t, token)
	})
}

func TestInMemoryRepo(t *testing.T) {
	repoContract(t, tokenstore.NewInMemoryRepo())
}

func TestRedisRepo(t *testing.T) {
	repo, mr := setupRedis(t)
	repoContract(t, repo)

	t.Run("ttl expiry", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "tab-ttl", "token", time.Minute))
		mr.FastForward(2 * time.Minute)
		_, err := repo.Get(ctx, "tab-ttl")
		require.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("server down surfaces an error", func(t *testing.T) {
		down, err := miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: down.Addr(), MaxRetries: -1})
		defer client.Close()
		down.Close()

		_, err = tokenstore.NewRedisRepo(client).Get(context.Background(), "tab-1")
		require.Error(t, err)
		require.False(t, errors.Is(err, errors.ErrNotFound))
	})
}
