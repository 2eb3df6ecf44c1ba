package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	sharedApplication "github.com/felixgeelhaar/todo/internal/shared/application"
	"github.com/felixgeelhaar/todo/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
	cfg     *config.Config
	initApp AppInitializer
)

// SkipAppAnnotation marks commands that run without an opened task store.
const SkipAppAnnotation = "todo/skip-app"

// AppInitializer opens the store and builds the App on first use.
type AppInitializer func(ctx context.Context) (*App, error)

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "todo - manage tasks from the terminal",
	Long: `todo drives the same task store as the todo API service.

The backend is selected by DATABASE_URL (postgres, mongodb, redis,
sqlite or memory); without it tasks live in ~/.todo/todo.db.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		if logger == nil {
			logger = slog.Default()
		}
		correlationID := uuid.New()
		ctx := sharedApplication.WithCorrelationID(cmd.Context(), correlationID)
		ctx = sharedApplication.WithSource(ctx, "cli")
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, time.Now()))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", correlationID.String(),
		)

		if app == nil && initApp != nil && needsApp(cmd) {
			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			SetApp(a)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		startedAt, ok := cmd.Context().Value(commandContextKey{}).(time.Time)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", sharedApplication.CorrelationIDFromContext(cmd.Context()).String(),
			"duration_ms", time.Since(startedAt).Milliseconds(),
		)
	},
}

// ExecuteContext runs the root command with ctx, which is canceled on
// shutdown signals. The caller owns the exit code so it can release
// resources first.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// needsApp reports whether cmd runs against the task store. Group commands,
// help and anything annotated with SkipAppAnnotation do not.
func needsApp(cmd *cobra.Command) bool {
	if !cmd.Runnable() || cmd.Name() == "help" || cmd.Name() == "completion" {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[SkipAppAnnotation] != "" {
			return false
		}
	}
	return true
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the CLI logger, or slog.Default when none was set.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// SetAppInitializer registers how the App is built when a command first needs it.
func SetAppInitializer(fn AppInitializer) {
	initApp = fn
}

// SetConfig records the loaded configuration for commands that open
// their own connections, such as migrate.
func SetConfig(c *config.Config) {
	cfg = c
}
