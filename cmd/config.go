package cmd

import (
	"fmt"

	cfgpkg "github.com/TellusGreen/forestlens-cli/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(b))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		starter := &cfgpkg.Global{
			TrendThreshold:      0.5,
			StrongCorrelation:   0.7,
			ModerateCorrelation: 0.3,
			MaxRows:             200000,
			Progress:            true,
			Datasets: []cfgpkg.Dataset{
				{Name: "canopy", Path: "canopy_timeseries.csv", Kind: "timeseries", YearMin: 2013, YearMax: 2024},
				{Name: "change", Path: "forest_change.csv", Kind: "forest_change"},
			},
		}
		if err := cfgpkg.Save(starter, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
