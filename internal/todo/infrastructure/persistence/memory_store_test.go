package persistence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) task.Store {
		return persistence.NewMemoryStore()
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()

	tk := mustTask(t, "original")
	require.NoError(t, store.Create(ctx, tk))

	found, err := store.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	found.Apply(task.Changes{Text: strPtr("mutated locally")})

	again, err := store.FindByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, "original", again.Text())
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk, err := task.NewTask("parallel", false)
			if err == nil {
				_ = store.Create(ctx, tk)
			}
		}()
	}
	wg.Wait()

	tasks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.List(ctx)
	assert.True(t, task.IsStoreError(err))
	assert.True(t, task.IsStoreError(store.Ping(ctx)))
}
