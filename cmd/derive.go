package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/TellusGreen/forestlens-cli/internal/utils"
	"github.com/TellusGreen/forestlens-cli/internal/view"
	"github.com/spf13/cobra"
)

var (
	derKind         string
	derMode         string
	derMetric       string
	derSecondMetric string
	derYear         int
	derBaselineYear int
	derMaxRows      int
	derOut          string
)

var deriveCmd = &cobra.Command{
	Use:   "derive <dataset|file>",
	Short: "Derive a per-pixel analytical view and emit it as JSON",
	Long: `Derive runs the full pipeline for one mode/metric/year selection and emits
the resulting per-pixel attribute bundles as a JSON feature collection for
the rendering layer. Modes: current_value, change_from_baseline,
trend_analysis, correlation, forest_change, binary_classification.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := view.ParseMode(derMode)
		if err != nil {
			return err
		}
		path, kind, yMin, yMax, err := resolveDataset(args[0], derKind)
		if err != nil {
			return err
		}
		l, err := acquire(path, kind, yMin, yMax, derMaxRows)
		if err != nil {
			return err
		}

		params := view.Params{
			Metric:       derMetric,
			SecondMetric: derSecondMetric,
			Year:         derYear,
			BaselineYear: derBaselineYear,
		}
		if cfg != nil {
			params.TrendThreshold = cfg.TrendThreshold
			params.StrongCorr = cfg.StrongCorrelation
			params.ModerateCorr = cfg.ModerateCorrelation
		}

		col, err := view.Derive(l, mode, params)
		if err != nil {
			return err
		}
		data, err := utils.PrettyJSON(col)
		if err != nil {
			return err
		}
		if derOut == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := utils.EnsureDir(filepath.Dir(derOut)); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(derOut, data); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d features to %s\n", len(col.Features), derOut)
		return nil
	},
}

func init() {
	deriveCmd.Flags().StringVar(&derKind, "kind", "", "dataset kind (timeseries|canopy|forest_change|classification|binary_cover)")
	deriveCmd.Flags().StringVar(&derMode, "mode", "current_value", "analysis mode")
	deriveCmd.Flags().StringVar(&derMetric, "metric", "", "metric column to analyze")
	deriveCmd.Flags().StringVar(&derSecondMetric, "metric2", "", "second metric (correlation mode)")
	deriveCmd.Flags().IntVar(&derYear, "year", 0, "year of interest (time-series modes)")
	deriveCmd.Flags().IntVar(&derBaselineYear, "baseline-year", 0, "baseline year (change_from_baseline mode)")
	deriveCmd.Flags().IntVar(&derMaxRows, "max-rows", 0, "limit rows processed (overrides config)")
	deriveCmd.Flags().StringVar(&derOut, "out", "", "write the feature collection to a file instead of stdout")
	rootCmd.AddCommand(deriveCmd)
}
