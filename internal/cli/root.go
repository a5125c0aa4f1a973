// Package cli provides the command-line interface for snapdiff.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/snapdiff/internal/cli/config"
	"github.com/leapstack-labs/snapdiff/internal/compare"
	"github.com/leapstack-labs/snapdiff/internal/plan"
	"github.com/leapstack-labs/snapdiff/internal/store"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(exitCode *int) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snapdiff <store-a> <store-b>",
		Short: "Compare two indexer snapshot databases",
		Long: `snapdiff compares two SQLite snapshot databases produced by two runs
of the same indexing pipeline and reports per-row and per-table
discrepancies over a configurable set of tables and columns.

Tables absent from either store are skipped, not failed: comparing
snapshots at different schema migration stages is a normal input. A
fetch failure for one table is reported inline and the remaining
tables are still compared.

The process exits 0 whether or not discrepancies were found; use
--fail-on-diff to gate automation on equivalence instead.`,
		Example: `  # Compare two snapshot databases
  snapdiff run-a/indexer.db run-b/indexer.db

  # Machine-readable summary
  snapdiff run-a/indexer.db run-b/indexer.db --format json

  # Quick row-count sanity check
  snapdiff run-a/indexer.db run-b/indexer.db --counts-only

  # Compare four tables at a time
  snapdiff run-a/indexer.db run-b/indexer.db --jobs 4`,
		Args:          cobra.ExactArgs(2),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}
			return runCompare(cmd, args[0], args[1], cfg, exitCode)
		},
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: ./snapdiff.yaml)")
	rootCmd.Flags().StringP("format", "f", config.DefaultFormat, "Output format: table, text, json")
	rootCmd.Flags().Int("jobs", config.DefaultJobs, "Number of tables to compare in parallel")
	rootCmd.Flags().Bool("counts-only", false, "Compare row counts only, skip content diffing")
	rootCmd.Flags().Bool("fail-on-diff", false, "Exit non-zero when the stores are not equivalent")
	rootCmd.Flags().BoolP("verbose", "v", false, "Verbose output")

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	exitCode := 0
	cmd := newRootCmd(&exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode
}

func runCompare(cmd *cobra.Command, pathA, pathB string, cfg *config.Config, exitCode *int) error {
	logger := slog.New(slog.DiscardHandler)
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	// A store that cannot be opened at all is fatal to the whole run.
	storeA, err := store.New(pathA, logger)
	if err != nil {
		return err
	}
	storeB, err := store.New(pathB, logger)
	if err != nil {
		return err
	}

	p := plan.Default().WithTables(cfg.Tables)

	summary, err := compare.Compare(cmd.Context(), storeA, storeB, p, compare.Options{
		Workers:    cfg.Jobs,
		CountsOnly: cfg.CountsOnly,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if err := renderSummary(cmd.OutOrStdout(), summary, cfg.Format); err != nil {
		return err
	}

	if cfg.FailOnDiff && !summary.Equal() && exitCode != nil {
		*exitCode = 1
	}
	return nil
}
