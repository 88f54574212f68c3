package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets declared in the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || len(cfg.Datasets) == 0 {
			fmt.Println("No datasets declared. Add them under 'datasets:' in the config file.")
			return nil
		}
		for _, d := range cfg.Datasets {
			line := fmt.Sprintf("- %s: %s (%s)", d.Name, d.Path, d.Kind)
			if d.YearMin > 0 && d.YearMax > 0 {
				line += fmt.Sprintf(" years %d-%d", d.YearMin, d.YearMax)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
