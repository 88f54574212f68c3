package cmd

import (
	"fmt"

	"github.com/TellusGreen/forestlens-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	insKind    string
	insMaxRows int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset|file>",
	Short: "Load a dataset and print a quality summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, kind, yMin, yMax, err := resolveDataset(args[0], insKind)
		if err != nil {
			return err
		}
		l, err := acquire(path, kind, yMin, yMax, insMaxRows)
		if err != nil {
			return err
		}
		fmt.Print(analysis.Summarize(l).Markdown())
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&insKind, "kind", "", "dataset kind (timeseries|canopy|forest_change|classification|binary_cover)")
	inspectCmd.Flags().IntVar(&insMaxRows, "max-rows", 0, "limit rows processed (overrides config)")
	rootCmd.AddCommand(inspectCmd)
}
