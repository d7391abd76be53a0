// bracefix repairs structurally broken source files: balanced-delimiter
// scanning finds multi-line constructs that single-line pattern matching
// cannot, and an ordered rule pipeline rewrites the known defects.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bracefix/internal/config"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	// Logger, built once in PersistentPreRunE
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bracefix",
	Short: "bracefix - structural repair for broken source files",
	Long: `bracefix repairs common malformed-syntax defects in source files.

Single-line defects (truncated calls, missing commas, unused catch
bindings) are fixed by an ordered table of rewrite rules. Defects that
span lines - an arrow function returning an object literal whose closer
sits far below its opener - are located with a delimiter balance scan
and repaired at line granularity.

Targets and rule selection come from a YAML config file; paths given on
the command line override the configured targets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads the --config file, or falls back to defaults so the
// built-in fixers work without any configuration.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(cfgPath)
}

// buildLogger constructs the zap logger; --verbose forces debug level.
func buildLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(parsed)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to bracefix config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rulesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
