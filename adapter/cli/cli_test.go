package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	internalApp "github.com/felixgeelhaar/todo/internal/app"
	"github.com/felixgeelhaar/todo/internal/todo/infrastructure/persistence"
	"github.com/felixgeelhaar/todo/internal/version"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, cmd *cobra.Command) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetOut(nil) })

	if cmd.RunE != nil {
		err := cmd.RunE(cmd, nil)
		return out.String(), err
	}
	cmd.Run(cmd, nil)
	return out.String(), nil
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, versionCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "todo "+version.Version)
	assert.Contains(t, out, "commit: "+version.Commit)
}

func TestExecuteContext_ReturnsError(t *testing.T) {
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"no-such-command"})
	assert.Error(t, ExecuteContext(context.Background()))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "todo "+version.Version)
}

func TestHealthCmd(t *testing.T) {
	SetApp(nil)
	_, err := runCmd(t, healthCmd)
	assert.ErrorContains(t, err, "app not initialized")

	store := persistence.NewMemoryStore()
	c := internalApp.NewContainerWithStore(nil, nil, store, nil)
	a := NewApp(c.AddTaskHandler, c.UpdateTaskHandler, c.DeleteTaskHandler, c.ListTasksHandler, c.GetTaskHandler)
	a.SetStore(store)
	SetApp(a)
	defer SetApp(nil)

	out, err := runCmd(t, healthCmd)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	require.NoError(t, store.Close())
	_, err = runCmd(t, healthCmd)
	assert.ErrorContains(t, err, "store unreachable")
}

func TestMigrateCmd(t *testing.T) {
	SetConfig(nil)
	_, err := runCmd(t, migrateCmd)
	assert.ErrorContains(t, err, "configuration not loaded")

	SetConfig(&config.Config{
		DatabaseURL:      "sqlite://" + filepath.Join(t.TempDir(), "migrate.db"),
		DatabaseDriver:   "auto",
		DatabaseMaxConns: 1,
	})
	defer SetConfig(nil)

	out, err := runCmd(t, migrateCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 migration(s) to sqlite")

	out, err = runCmd(t, migrateCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (sqlite)")
}

func TestMigrateCmd_DocumentStore(t *testing.T) {
	SetConfig(&config.Config{DatabaseURL: "memory://", DatabaseDriver: "auto"})
	defer SetConfig(nil)

	out, err := runCmd(t, migrateCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Driver memory has no schema to migrate.")
}

func TestNeedsApp(t *testing.T) {
	group := &cobra.Command{Use: "group"}
	leaf := &cobra.Command{Use: "leaf", Run: func(*cobra.Command, []string) {}}
	skipped := &cobra.Command{
		Use:         "skipped",
		Run:         func(*cobra.Command, []string) {},
		Annotations: map[string]string{SkipAppAnnotation: "true"},
	}
	group.AddCommand(leaf, skipped)

	assert.False(t, needsApp(group))
	assert.True(t, needsApp(leaf))
	assert.False(t, needsApp(skipped))
	assert.False(t, needsApp(versionCmd))
	assert.False(t, needsApp(migrateCmd))
	assert.True(t, needsApp(healthCmd))
}
