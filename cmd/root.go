package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/TellusGreen/forestlens-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	debug      bool
	noProgress bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "forestlens",
	Short: "ForestLens CLI: derive per-pixel forest analytics from remote-sensing tables",
	Long: `ForestLens loads pixel-level remote-sensing datasets (canopy time series,
forest change masks, land-use classification, binary cover), normalizes them
into a per-pixel/per-year model, and derives analytical views — current
value, change from baseline, linear trend, correlation, classification —
as attribute bundles for a map rendering layer.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.forestlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable the ingest progress bar")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = &cfgpkg.Global{}
		return
	}
	cfg = c
	if noProgress {
		cfg.Progress = false
	}
}
