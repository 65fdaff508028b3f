package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FatjonaGashi/library-management-system/config"
)

// ============================================================================
// LIBRARY CLI: serve the API, seed it, and ask it questions
// ============================================================================

const version = "1.0.0"

var (
	// Global flags
	verbose    bool
	configPath string
	format     string
	outFile    string

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "Library management API and reading analytics",
	Long: `library runs the library HTTP API and answers questions about a book
collection, either through the server or with the embedded engine.

Examples:
  library serve
  library ask "Who owns the most books?"
  library ask "Show the five most expensive books" --format csv --out top.csv
  library ask "Books by genre" --remote --email john@example.com --password user123
  library insights --as john@example.com
  library import books.csv --remote --email john@example.com --password user123`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if cfg.Log.Development {
			zcfg = zap.NewDevelopmentConfig()
		}
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		if verbose {
			zcfg = zap.NewDevelopmentConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		switch format {
		case formatJSON, formatPretty, formatText, formatCSV:
		default:
			return fmt.Errorf("unknown format %q (json, pretty, text, csv)", format)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "library %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "library.yaml", "Path to YAML config")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", formatText, "Output format: json, pretty, text, csv")
	rootCmd.PersistentFlags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
