// Package cli provides the command-line interface for filmwise.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/filmwise/internal/agent"
	"github.com/raphaelgruber/filmwise/internal/catalog"
	"github.com/raphaelgruber/filmwise/internal/config"
	"github.com/raphaelgruber/filmwise/internal/llm"
	"github.com/raphaelgruber/filmwise/internal/memory"
	"github.com/raphaelgruber/filmwise/internal/metrics"
	"github.com/raphaelgruber/filmwise/internal/tools"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configPath string
	verbose    bool

	// Global config, logger, and stores
	cfg     config.Config
	logger  *slog.Logger
	films   *catalog.Store
	mem     *memory.Store
	stats   *metrics.Collector
	cleanup func() error

	// Lazy-initialized oracle
	oracle *llm.Oracle
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "filmwise",
	Short: "Conversational film assistant with persistent memory",
	Long: `Filmwise is a conversational film assistant. It answers film queries
against a local catalog, remembers who you are and what you like across
sessions, and personalizes its recommendations using learned preferences.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, cleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		films, err = catalog.Open(cfg.CatalogDBPath, logger)
		if err != nil {
			return fmt.Errorf("open catalog store: %w", err)
		}
		mem, err = memory.Open(cfg.MemoryDBPath, logger)
		if err != nil {
			return fmt.Errorf("open memory store: %w", err)
		}

		stats = metrics.NewCollector()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if films != nil {
			if err := films.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close catalog store: %v\n", err)
			}
		}
		if mem != nil {
			if err := mem.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close memory store: %v\n", err)
			}
		}
		if cleanup != nil {
			if err := cleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// getOrchestrator builds the turn pipeline, initializing the completion
// oracle on first use.
func getOrchestrator() (*agent.Orchestrator, error) {
	if oracle == nil {
		var err error
		oracle, err = llm.NewOracle(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init oracle: %w", err)
		}
	}

	return agent.New(
		mem,
		tools.NewRegistry(films, logger),
		agent.NewAssembler(mem, cfg.ContextTurns, cfg.ContextTokens, logger),
		agent.NewExtractor(mem, logger),
		oracle,
		stats,
		logger,
	), nil
}

// resolveUser maps the --user flag to a stable user id. An empty name
// yields a fresh anonymous user.
func resolveUser(ctx context.Context, name string) (string, error) {
	userID, err := mem.GetOrCreateUser(ctx, name)
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}
	return userID, nil
}

// ensureSeeded loads the starter catalog when the films table is empty.
func ensureSeeded(ctx context.Context) error {
	added, err := films.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if added > 0 {
		logger.Info("catalog seeded", "films", added)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(decayCmd)
}
