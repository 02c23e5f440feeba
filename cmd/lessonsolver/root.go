package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lessonscheduler/solver/pkg/config"
	"github.com/lessonscheduler/solver/pkg/observability"
)

var (
	seedFlag        int64
	outputDirFlag   string
	catalogPathFlag string
	visualizeFlag   bool

	appConfig  *config.Config
	appLogger  *slog.Logger
	appMetrics observability.Metrics
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd is the base command when lessonsolver is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "lessonsolver",
	Short: "Weekly one-on-one lesson scheduler CSP solver and fixture generator",
	Long: `lessonsolver runs the backtracking CSP solver against a teacher and
student availability problem, and drives the controllable test-case
generator that produces fixtures with a target exact solution count
and difficulty category for exercising the solver itself.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if cmd.Flags().Changed("seed") {
			cfg.DefaultSeed = seedFlag
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputDir = outputDirFlag
		}
		if cmd.Flags().Changed("catalog-path") {
			cfg.CatalogPath = catalogPathFlag
		}
		if cmd.Flags().Changed("visualize") {
			cfg.Visualize = visualizeFlag
		}
		appConfig = cfg
		appLogger = observability.LoggerFromEnv()
		if appConfig.IsDevelopment() {
			appMetrics = observability.NewInMemoryMetrics()
		} else {
			appMetrics = observability.NoopMetrics{}
		}

		info := commandContext{correlationID: uuid.New(), startedAt: time.Now()}
		cmd.SetContext(context.WithValue(cmd.Context(), commandContextKey{}, info))
		appLogger.Info("command start", "command", cmd.CommandPath(), "correlation_id", info.correlationID.String())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok || appLogger == nil {
			return
		}
		appLogger.Info("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 1, "RNG seed for generation (default from LESSON_SCHEDULER_SEED)")
	rootCmd.PersistentFlags().StringVar(&outputDirFlag, "output", "", "directory fixtures are written to (default from LESSON_SCHEDULER_OUTPUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&catalogPathFlag, "catalog-path", "", "SQLite database path for the fixture catalog (default from LESSON_SCHEDULER_CATALOG_PATH)")
	rootCmd.PersistentFlags().BoolVar(&visualizeFlag, "visualize", false, "publish solver trace events to stderr as JSON lines")
}
