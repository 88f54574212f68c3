package dataset

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
)

var (
	ncXs    = []float64{-60.1, -60.2}
	ncYs    = []float64{-3.1, -3.2}
	ncYears = []int32{2013, 2014}
)

// ncGrid fills a (year, y, x) cube with base + 10t + 2j + i so every cell
// is distinct and recoverable in assertions.
func ncGrid(base float64) [][][]float64 {
	grid := make([][][]float64, len(ncYears))
	for t := range ncYears {
		grid[t] = make([][]float64, len(ncYs))
		for j := range ncYs {
			grid[t][j] = make([]float64, len(ncXs))
			for i := range ncXs {
				grid[t][j][i] = base + 10*float64(t) + 2*float64(j) + float64(i)
			}
		}
	}
	return grid
}

func cube(grid [][][]float64) api.Variable {
	return api.Variable{Values: grid, Dimensions: []string{"year", "y", "x"}}
}

func writeNetCDFFixture(t *testing.T, metrics map[string]api.Variable) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.nc")
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	vars := map[string]api.Variable{
		"x":    {Values: ncXs, Dimensions: []string{"x"}},
		"y":    {Values: ncYs, Dimensions: []string{"y"}},
		"year": {Values: ncYears, Dimensions: []string{"year"}},
	}
	for name, v := range metrics {
		vars[name] = v
	}
	for name, v := range vars {
		if err := cw.AddVar(name, v); err != nil {
			t.Fatalf("add variable %s: %v", name, err)
		}
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func fullMetricCubes() map[string]api.Variable {
	metrics := make(map[string]api.Variable)
	for k, m := range KindTimeSeries.Metrics() {
		metrics[m] = cube(ncGrid(float64(100 * k)))
	}
	return metrics
}

func TestLoadNetCDF(t *testing.T) {
	metrics := fullMetricCubes()
	// Poke a fill-value hole into one canopy cell.
	canopy := metrics[MetricCanopyCover].Values.([][][]float64)
	canopy[0][0][0] = math.NaN()

	path := writeNetCDFFixture(t, metrics)
	l, err := LoadNetCDF(path, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantRows := len(ncYears) * len(ncYs) * len(ncXs)
	if l.Rows != wantRows || len(l.Records) != wantRows {
		t.Fatalf("rows: got %d/%d records, want %d", l.Rows, len(l.Records), wantRows)
	}
	if l.Synthetic {
		t.Fatalf("file-backed load flagged synthetic")
	}

	// Cells are emitted in (year, y, x) order; the same cell in both year
	// slices must resolve to the same pixel id.
	perYear := len(ncYs) * len(ncXs)
	for c := 0; c < perYear; c++ {
		first, second := l.Records[c], l.Records[perYear+c]
		if first.PixelID != second.PixelID {
			t.Errorf("cell %d: pixel id %d at 2013 vs %d at 2014", c, first.PixelID, second.PixelID)
		}
	}

	holed := l.Records[0]
	if holed.Year != 2013 {
		t.Fatalf("record order: first record at year %d, want 2013", holed.Year)
	}
	if _, ok := holed.Metric(MetricCanopyCover); ok {
		t.Errorf("fill-value canopy cell survived normalization")
	}
	if v, ok := holed.Metric(MetricTreeHeight); !ok || v != 100 {
		t.Errorf("tree height at holed cell: got %v (%v), want 100", v, ok)
	}
	if v, ok := l.Records[1].Metric(MetricCanopyCover); !ok || v != 1 {
		t.Errorf("canopy at (1,0) 2013: got %v (%v), want 1", v, ok)
	}
}

func TestLoadNetCDFRejectsMalformedGrids(t *testing.T) {
	flat := fullMetricCubes()
	flat[MetricCanopyCover] = api.Variable{Values: []float64{1, 2}, Dimensions: []string{"x"}}
	path := writeNetCDFFixture(t, flat)
	if _, err := LoadNetCDF(path, DefaultLoadOptions()); err == nil || !strings.Contains(err.Error(), "unexpected shape") {
		t.Fatalf("flat grid: got %v, want shape error", err)
	}

	short := fullMetricCubes()
	short[MetricCanopyCover] = api.Variable{Values: ncGrid(0)[:1], Dimensions: []string{"t", "y", "x"}}
	path = writeNetCDFFixture(t, short)
	if _, err := LoadNetCDF(path, DefaultLoadOptions()); err == nil || !strings.Contains(err.Error(), "year slices") {
		t.Fatalf("short grid: got %v, want slice-count error", err)
	}
}
