package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/todo/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/todo/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverPostgres, database.DriverSQLite} {
		t.Run(driver.String(), func(t *testing.T) {
			ms, err := migrations.Load(driver)
			require.NoError(t, err)
			require.NotEmpty(t, ms)
			assert.Equal(t, "0001_create_tasks", ms[0].Version)
			assert.Contains(t, ms[0].SQL, "CREATE TABLE IF NOT EXISTS tasks")

			for i := 1; i < len(ms); i++ {
				assert.Less(t, ms[i-1].Version, ms[i].Version)
			}
		})
	}

	_, err := migrations.Load(database.DriverMongo)
	assert.Error(t, err)
}

func TestRunner_Up_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "todo.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	runner := migrations.NewRunner(conn, nil)

	applied, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Contains(t, applied, "0001_create_tasks")

	again, err := runner.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	recorded, err := runner.Applied(ctx)
	require.NoError(t, err)
	assert.Len(t, recorded, len(applied))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count))
	assert.Zero(t, count)
}
