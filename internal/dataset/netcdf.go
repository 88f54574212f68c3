package dataset

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/google/uuid"
)

// LoadNetCDF reads the multi-metric time series from a gridded NetCDF file
// with dimensions (year, y, x) and one variable per metric column, and
// normalizes it into the same records the CSV loader produces. Cells holding
// the file's fill value arrive as NaN and are dropped per metric.
func LoadNetCDF(path string, opt LoadOptions) (*Load, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf: %w", err)
	}
	defer nc.Close()

	xs, err := dimValues[float64](nc, "x")
	if err != nil {
		return nil, err
	}
	ys, err := dimValues[float64](nc, "y")
	if err != nil {
		return nil, err
	}
	years, err := dimValues[int32](nc, "year")
	if err != nil {
		return nil, err
	}

	kind := KindTimeSeries
	grids := make(map[string][][][]float64, len(kind.Metrics()))
	for _, m := range kind.Metrics() {
		vg, err := nc.GetVarGetter(m)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", m, err)
		}
		v, err := vg.Values()
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", m, err)
		}
		grid, ok := v.([][][]float64)
		if !ok {
			return nil, fmt.Errorf("variable %s: unexpected shape %T", m, v)
		}
		if len(grid) != len(years) {
			return nil, fmt.Errorf("variable %s: %d year slices, want %d", m, len(grid), len(years))
		}
		grids[m] = grid
	}

	load := &Load{ID: uuid.New(), Name: path, Kind: kind}
	norm := NewNormalizer(kind, NewIndex())
	if opt.YearMin > 0 {
		norm.YearMin = opt.YearMin
	}
	if opt.YearMax > 0 {
		norm.YearMax = opt.YearMax
	}

	for t, year := range years {
		for j := range ys {
			for i := range xs {
				row := Row{"x": xs[i], "y": ys[j], "year": float64(year)}
				for m, grid := range grids {
					v := grid[t][j][i]
					if finite(v) {
						row[m] = v
					}
				}
				load.Rows++
				recs, err := norm.Normalize(row)
				if err != nil {
					load.Dropped++
					load.warn("cell (%d,%d) year %d dropped: %v", i, j, year, err)
					continue
				}
				load.Records = append(load.Records, recs...)
			}
		}
	}
	return load, nil
}

func dimValues[T int32 | float64](nc api.Group, name string) ([]T, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("dimension %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("dimension %s: %w", name, err)
	}
	vals, ok := v.([]T)
	if !ok {
		return nil, fmt.Errorf("dimension %s: unexpected type %T", name, v)
	}
	return vals, nil
}
