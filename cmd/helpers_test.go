package cmd

import (
	"path/filepath"
	"testing"

	cfgpkg "github.com/TellusGreen/forestlens-cli/internal/config"
	"github.com/TellusGreen/forestlens-cli/internal/dataset"
)

func TestResolveDeclaredDataset(t *testing.T) {
	old := cfg
	defer func() { cfg = old }()
	cfg = &cfgpkg.Global{
		DataDir: "/data",
		Datasets: []cfgpkg.Dataset{
			{Name: "canopy", Path: "canopy.csv", Kind: "timeseries", YearMin: 2013, YearMax: 2024},
		},
	}

	path, kind, yMin, yMax, err := resolveDataset("canopy", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join("/data", "canopy.csv") {
		t.Errorf("path: got %q", path)
	}
	if kind != dataset.KindTimeSeries {
		t.Errorf("kind: got %q", kind)
	}
	if yMin != 2013 || yMax != 2024 {
		t.Errorf("year range: got %d-%d", yMin, yMax)
	}
}

func TestResolveExplicitFile(t *testing.T) {
	old := cfg
	defer func() { cfg = old }()
	cfg = &cfgpkg.Global{}

	path, kind, _, _, err := resolveDataset("/tmp/change.csv", "forest_change")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/change.csv" || kind != dataset.KindForestChange {
		t.Errorf("got %q / %q", path, kind)
	}

	if _, _, _, _, err := resolveDataset("/tmp/change.csv", ""); err == nil {
		t.Fatalf("expected error without --kind for undeclared file")
	}
	if _, _, _, _, err := resolveDataset("/tmp/change.csv", "heatmap"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
