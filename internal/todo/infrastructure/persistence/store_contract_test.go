package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func mustTask(t *testing.T, text string) *task.Task {
	t.Helper()
	tk, err := task.NewTask(text, false)
	require.NoError(t, err)
	return tk
}

// runStoreContract exercises the behaviour every Store backend must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) task.Store) {
	t.Run("create then find", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		created := mustTask(t, "buy milk")
		require.NoError(t, store.Create(ctx, created))

		found, err := store.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, created.ID(), found.ID())
		assert.Equal(t, "buy milk", found.Text())
		assert.False(t, found.Completed())
		assert.Equal(t, 1, found.Version())
		assert.WithinDuration(t, created.CreatedAt(), found.CreatedAt(), time.Millisecond)
	})

	t.Run("list is empty initially", func(t *testing.T) {
		tasks, err := newStore(t).List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("list returns every task once in insertion order", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		var ids []uuid.UUID
		for _, text := range []string{"one", "two", "three", "four", "five"} {
			tk := mustTask(t, text)
			require.NoError(t, store.Create(ctx, tk))
			ids = append(ids, tk.ID())
		}

		tasks, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, len(ids))
		for i, tk := range tasks {
			assert.Equal(t, ids[i], tk.ID())
		}
		assert.Equal(t, "one", tasks[0].Text())
		assert.Equal(t, "five", tasks[4].Text())
	})

	t.Run("create rejects invalid task without writing", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		blank := task.RehydrateTask(uuid.New(), "   ", false, 1, time.Now(), time.Now())
		err := store.Create(ctx, blank)
		assert.True(t, task.IsValidation(err))

		err = store.Create(ctx, nil)
		assert.True(t, task.IsValidation(err))

		tasks, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("create rejects duplicate id", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		tk := mustTask(t, "once")
		require.NoError(t, store.Create(ctx, tk))

		err := store.Create(ctx, tk)
		assert.True(t, task.IsStoreError(err))
	})

	t.Run("find unknown id", func(t *testing.T) {
		_, err := newStore(t).FindByID(context.Background(), uuid.New())
		assert.True(t, task.IsNotFound(err))
	})

	t.Run("update merges fields", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		tk := mustTask(t, "draft")
		require.NoError(t, store.Create(ctx, tk))

		updated, err := store.Update(ctx, tk.ID(), task.Changes{Completed: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, "draft", updated.Text())
		assert.True(t, updated.Completed())
		assert.Equal(t, 2, updated.Version())

		updated, err = store.Update(ctx, tk.ID(), task.Changes{Text: strPtr("  final  ")})
		require.NoError(t, err)
		assert.Equal(t, "final", updated.Text())
		assert.True(t, updated.Completed())
		assert.Equal(t, 3, updated.Version())
		assert.False(t, updated.UpdatedAt().Before(tk.UpdatedAt()))

		found, err := store.FindByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, "final", found.Text())
		assert.True(t, found.Completed())
	})

	t.Run("update with no changes returns current record", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		tk := mustTask(t, "same")
		require.NoError(t, store.Create(ctx, tk))

		current, err := store.Update(ctx, tk.ID(), task.Changes{})
		require.NoError(t, err)
		assert.Equal(t, "same", current.Text())
		assert.Equal(t, 1, current.Version())
	})

	t.Run("update rejects empty text", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		tk := mustTask(t, "keep me")
		require.NoError(t, store.Create(ctx, tk))

		_, err := store.Update(ctx, tk.ID(), task.Changes{Text: strPtr(" ")})
		assert.True(t, task.IsValidation(err))

		found, err := store.FindByID(ctx, tk.ID())
		require.NoError(t, err)
		assert.Equal(t, "keep me", found.Text())
	})

	t.Run("update unknown id", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Update(context.Background(), uuid.New(), task.Changes{Completed: boolPtr(true)})
		assert.True(t, task.IsNotFound(err))

		_, err = store.Update(context.Background(), uuid.New(), task.Changes{})
		assert.True(t, task.IsNotFound(err))
	})

	t.Run("delete removes from list", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		keep := mustTask(t, "keep")
		drop := mustTask(t, "drop")
		require.NoError(t, store.Create(ctx, keep))
		require.NoError(t, store.Create(ctx, drop))

		require.NoError(t, store.Delete(ctx, drop.ID()))

		tasks, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, keep.ID(), tasks[0].ID())

		_, err = store.FindByID(ctx, drop.ID())
		assert.True(t, task.IsNotFound(err))
	})

	t.Run("delete unknown id", func(t *testing.T) {
		err := newStore(t).Delete(context.Background(), uuid.New())
		assert.True(t, task.IsNotFound(err))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
