package persistence_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisStore namespaces keys per test with a random prefix.
func newRedisStore(t *testing.T, url string) *persistence.RedisStore {
	t.Helper()

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Failed to connect to redis: %v", err)
	}

	prefix := "todo_test_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return persistence.NewRedisStoreFromClient(client, prefix, nil)
}

// newMiniRedisStore runs the store against an in-process server. The
// returned client shares the server for direct key inspection.
func newMiniRedisStore(t *testing.T) (*persistence.RedisStore, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	inspect := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { inspect.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), PoolSize: 64})
	store := persistence.NewRedisStoreFromClient(client, "", nil)
	t.Cleanup(func() { store.Close() })
	return store, inspect
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping integration test")
	}

	runStoreContract(t, func(t *testing.T) task.Store {
		return newRedisStore(t, url)
	})
}

func TestRedisStore_MiniRedis(t *testing.T) {
	runStoreContract(t, func(t *testing.T) task.Store {
		store, _ := newMiniRedisStore(t)
		return store
	})
}

func TestRedisStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store, _ := newMiniRedisStore(t)

	tk := mustTask(t, "contended")
	require.NoError(t, store.Create(ctx, tk))

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	written := make(map[string]bool, writers)
	for i := range writers {
		text := fmt.Sprintf("writer %d", i)
		written[text] = true

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, tk.ID(), task.Changes{Text: &text})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	got, err := store.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.True(t, written[got.Text()], "final text %q was never written", got.Text())
	assert.Equal(t, tk.Version()+writers, got.Version(), "every update is applied on top of the previous one")
}

func TestRedisStore_ContentionKeepsBreakerClosed(t *testing.T) {
	ctx := context.Background()
	redisStore, _ := newMiniRedisStore(t)
	store := persistence.NewBreakerStore(redisStore, persistence.DefaultBreakerConfig(), nil)

	tk := mustTask(t, "hot record")
	require.NoError(t, store.Create(ctx, tk))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := true
			_, _ = store.Update(ctx, tk.ID(), task.Changes{Completed: &done})
		}()
	}
	wg.Wait()

	assert.Equal(t, gobreaker.StateClosed, store.State())
	_, err := store.List(ctx)
	assert.NoError(t, err)
}

func TestRedisStore_DuplicateCreateKeepsIndexScore(t *testing.T) {
	ctx := context.Background()
	store, inspect := newMiniRedisStore(t)

	tk := mustTask(t, "original")
	require.NoError(t, store.Create(ctx, tk))

	before, err := inspect.ZScore(ctx, "todo:tasks", tk.ID().String()).Result()
	require.NoError(t, err)

	later := task.RehydrateTask(tk.ID(), "impostor", false, 1, tk.CreatedAt().Add(time.Hour), tk.UpdatedAt().Add(time.Hour))
	err = store.Create(ctx, later)
	assert.True(t, task.IsStoreError(err))

	after, err := inspect.ZScore(ctx, "todo:tasks", tk.ID().String()).Result()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	got, err := store.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text())
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := persistence.NewRedisStore(context.Background(), "not a url", nil)
	assert.Error(t, err)
}
