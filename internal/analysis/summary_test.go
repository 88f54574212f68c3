package analysis

import (
	"strings"
	"testing"

	"github.com/TellusGreen/forestlens-cli/internal/dataset"
	"github.com/google/uuid"
)

func fixtureLoad() *dataset.Load {
	l := &dataset.Load{ID: uuid.New(), Name: "canopy.csv", Kind: dataset.KindCanopy, Rows: 4, Dropped: 1}
	l.Records = []dataset.PixelRecord{
		{PixelID: 0, Kind: dataset.KindCanopy, Year: 2013, Valid: true, Metrics: map[string]float64{dataset.MetricCanopyCover: 40}},
		{PixelID: 0, Kind: dataset.KindCanopy, Year: 2014, Valid: true, Metrics: map[string]float64{dataset.MetricCanopyCover: 44}},
		{PixelID: 1, Kind: dataset.KindCanopy, Year: 2013, Valid: false, Metrics: map[string]float64{dataset.MetricCanopyCover: 255}},
	}
	l.Warnings = []string{"row 4 dropped: invalid record"}
	return l
}

func TestSummarize(t *testing.T) {
	rep := Summarize(fixtureLoad())
	if rep.Records != 3 || rep.Valid != 2 || rep.Invalid != 1 || rep.Dropped != 1 {
		t.Fatalf("unexpected counts: %+v", rep)
	}
	if rep.Pixels != 2 {
		t.Errorf("pixels: got %d, want 2", rep.Pixels)
	}
	if len(rep.Years) != 2 || rep.Years[0] != 2013 || rep.Years[1] != 2014 {
		t.Errorf("years: got %v", rep.Years)
	}
	if len(rep.Metrics) != 1 {
		t.Fatalf("metrics: got %d, want 1", len(rep.Metrics))
	}
	m := rep.Metrics[0]
	if m.Name != dataset.MetricCanopyCover || m.Count != 2 || m.Min != 40 || m.Max != 44 {
		t.Errorf("unexpected metric summary: %+v", m)
	}
}

func TestMarkdownFlagsSyntheticData(t *testing.T) {
	l := fixtureLoad()
	l.Synthetic = true
	md := Summarize(l).Markdown()
	if !strings.Contains(md, "SYNTHETIC") {
		t.Fatalf("synthetic data not flagged in report:\n%s", md)
	}
	if !strings.Contains(md, dataset.MetricCanopyCover) {
		t.Fatalf("metric line missing:\n%s", md)
	}
	if !strings.Contains(md, "[NOTES]") {
		t.Fatalf("warnings section missing:\n%s", md)
	}
}
