package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSVTimeSeries(t *testing.T) {
	path := writeFixture(t, "canopy.csv", []string{
		"x,y,year,canopy_cover,tree_height,living_biomass,living_biomass_carbon_stock,raos_q_diversity_index",
		"-60.1,-3.2,2013,40,8,120,56.4,0.3",
		"-60.1,-3.2,2014,42,8.5,126,59.2,0.3",
		"-60.2,-3.2,2013,70,14,210,98.7,0.5",
		"bogus,-3.2,2013,1,1,1,1,1",     // non-numeric x: dropped
		"-60.1,-3.2,2014,99,9,130,61,1", // duplicate (pixel, year): dropped
		"-60.3,-3.2,2099,10,2,30,14,1",  // year out of range: dropped
	})

	l, err := LoadCSV(path, KindTimeSeries, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Rows != 6 {
		t.Errorf("rows: got %d, want 6", l.Rows)
	}
	if len(l.Records) != 3 {
		t.Errorf("records: got %d, want 3", len(l.Records))
	}
	if l.Dropped != 3 {
		t.Errorf("dropped: got %d, want 3", l.Dropped)
	}
	if l.Synthetic {
		t.Errorf("real load flagged synthetic")
	}
	if len(l.Warnings) == 0 {
		t.Errorf("expected warnings for dropped rows")
	}

	// Same coordinate across years shares one pixel id.
	if l.Records[0].PixelID != l.Records[1].PixelID {
		t.Errorf("pixel id not stable across years: %d vs %d", l.Records[0].PixelID, l.Records[1].PixelID)
	}
	if l.Records[2].PixelID == l.Records[0].PixelID {
		t.Errorf("distinct coordinates shared a pixel id")
	}
}

func TestLoadCSVTabDelimited(t *testing.T) {
	path := writeFixture(t, "change.tsv", []string{
		"x\ty\tdatamask\tgain\tlossyear\ttreecover2000",
		"-60.1\t-3.2\t1\t0\t14\t80",
		"-60.2\t-3.2\t0\t0\t0\t0",
	})
	l, err := LoadCSV(path, KindForestChange, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Records) != 2 {
		t.Fatalf("records: got %d, want 2", len(l.Records))
	}
	valid := l.ValidRecords()
	if len(valid) != 1 {
		t.Fatalf("valid records: got %d, want 1", len(valid))
	}
	if valid[0].LossYear != 2014 {
		t.Errorf("loss year: got %d, want 2014", valid[0].LossYear)
	}
}

func TestLoadCSVMaxRows(t *testing.T) {
	lines := []string{"x,y,year,canopy_cover"}
	for i := 0; i < 10; i++ {
		lines = append(lines, "-60.1,-3.2,"+string(rune('0'+i))+",50")
	}
	// Years above are invalid; we only care about the row cap.
	opt := DefaultLoadOptions()
	opt.MaxRows = 4
	path := writeFixture(t, "capped.csv", lines)
	l, err := LoadCSV(path, KindCanopy, opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Rows != 5 {
		t.Errorf("rows: got %d, want 5 (cap hit on the fifth)", l.Rows)
	}
}

func TestAcquireFallsBackToSynthetic(t *testing.T) {
	l := Acquire(filepath.Join(t.TempDir(), "missing.csv"), KindForestChange, DefaultLoadOptions())
	if !l.Synthetic {
		t.Fatalf("expected synthetic fallback")
	}
	if len(l.Records) == 0 {
		t.Fatalf("synthetic fallback produced no records")
	}
	if len(l.Warnings) == 0 || !strings.Contains(l.Warnings[len(l.Warnings)-1], "synthetic") {
		t.Fatalf("fallback must be flagged in warnings: %v", l.Warnings)
	}
}

func TestSynthesizeAllKinds(t *testing.T) {
	for _, kind := range []Kind{KindTimeSeries, KindCanopy, KindForestChange, KindClassification, KindBinaryCover} {
		l := Synthesize(kind, DefaultLoadOptions())
		if !l.Synthetic {
			t.Errorf("%s: not flagged synthetic", kind)
		}
		if len(l.Records) == 0 {
			t.Errorf("%s: no records", kind)
		}
		if kind.TimeSeries() {
			// Every pixel carries the full year range for trend fitting.
			years := make(map[int]struct{})
			for _, r := range l.Records {
				if r.PixelID == 0 {
					years[r.Year] = struct{}{}
				}
			}
			if len(years) != defaultYearMax-defaultYearMin+1 {
				t.Errorf("%s: pixel 0 has %d years", kind, len(years))
			}
		}
	}
}
