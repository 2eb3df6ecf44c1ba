package persistence_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newMongoStore gives every test its own database so runs do not interfere.
func newMongoStore(t *testing.T, uri string) *persistence.MongoStore {
	t.Helper()

	store, err := persistence.NewMongoStore(context.Background(), uri, fmt.Sprintf("todo_test_%s", uuid.NewString()[:8]), nil)
	if err != nil {
		t.Skipf("Failed to connect to MongoDB: %v", err)
	}
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TEST_MONGO_URL not set, skipping integration test")
	}

	runStoreContract(t, func(t *testing.T) task.Store {
		return newMongoStore(t, uri)
	})
}

func TestNewMongoStore_RequiresDatabase(t *testing.T) {
	_, err := persistence.NewMongoStore(context.Background(), "mongodb://localhost:27017", "", nil)
	require.Error(t, err)
}
