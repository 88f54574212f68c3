package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TellusGreen/forestlens-cli/internal/dataset"
)

// resolveDataset maps the positional argument to a source path and kind.
// The argument may be the name of a dataset declared in the config, or a
// file path combined with an explicit --kind flag.
func resolveDataset(arg, kindFlag string) (path string, kind dataset.Kind, yearMin, yearMax int, err error) {
	if cfg != nil {
		if d, ok := cfg.FindDataset(arg); ok {
			k, err := dataset.ParseKind(d.Kind)
			if err != nil {
				return "", "", 0, 0, fmt.Errorf("dataset %q: %w", d.Name, err)
			}
			p := d.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(cfg.DataDir, p)
			}
			return p, k, d.YearMin, d.YearMax, nil
		}
	}
	if kindFlag == "" {
		return "", "", 0, 0, fmt.Errorf("%q is not a declared dataset; pass a file path with --kind", arg)
	}
	k, err := dataset.ParseKind(kindFlag)
	if err != nil {
		return "", "", 0, 0, err
	}
	return arg, k, 0, 0, nil
}

// acquire loads the dataset through the CSV or NetCDF path depending on the
// file extension, honoring configured ingestion limits.
func acquire(path string, kind dataset.Kind, yearMin, yearMax, maxRows int) (*dataset.Load, error) {
	opt := dataset.DefaultLoadOptions()
	opt.YearMin = yearMin
	opt.YearMax = yearMax
	opt.Debug = debug
	if cfg != nil {
		opt.Progress = cfg.Progress
		if cfg.MaxRows > 0 {
			opt.MaxRows = cfg.MaxRows
		}
	}
	if maxRows > 0 {
		opt.MaxRows = maxRows
	}

	if strings.HasSuffix(strings.ToLower(path), ".nc") {
		if kind != dataset.KindTimeSeries {
			return nil, fmt.Errorf("netcdf acquisition only supports the timeseries kind, got %s", kind)
		}
		return dataset.LoadNetCDF(path, opt)
	}

	l := dataset.Acquire(path, kind, opt)
	if l.Synthetic {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s could not be read; serving SYNTHETIC data\n", path)
	}
	return l, nil
}
