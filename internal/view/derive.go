// Package view derives per-pixel analytical values from normalized dataset
// records: current value, change from baseline, linear trend, cross-metric
// correlation, and the categorical relabelings. Every derivation is a pure
// function of the load and its parameters; nothing is cached between calls.
package view

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/TellusGreen/forestlens-cli/internal/dataset"
	"github.com/TellusGreen/forestlens-cli/internal/stats"
)

// Mode selects the analysis applied to a load.
type Mode string

const (
	ModeCurrentValue       Mode = "current_value"
	ModeChangeFromBaseline Mode = "change_from_baseline"
	ModeTrendAnalysis      Mode = "trend_analysis"
	ModeCorrelation        Mode = "correlation"
	ModeForestChange       Mode = "forest_change"
	ModeBinary             Mode = "binary_classification"
)

// ParseMode maps a user-facing name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeCurrentValue, ModeChangeFromBaseline, ModeTrendAnalysis,
		ModeCorrelation, ModeForestChange, ModeBinary:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// ModeError indicates the requested mode cannot be derived from the dataset
// as configured (wrong shape, missing metric, missing year). The engine
// refuses rather than returning fabricated or silently empty output.
type ModeError struct {
	Mode   Mode
	Reason string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("mode %s: %s", e.Mode, e.Reason)
}

// Trend direction thresholds are metric-unit conventions, not statistics.
const DefaultTrendThreshold = 0.5

// Correlation strength bands on |r|.
const (
	DefaultStrongCorrelation   = 0.7
	DefaultModerateCorrelation = 0.3
)

// Params parameterizes a derivation. Zero values mean "not set".
type Params struct {
	Metric       string
	SecondMetric string
	Year         int
	BaselineYear int

	TrendThreshold float64
	StrongCorr     float64
	ModerateCorr   float64
}

func (p Params) trendThreshold() float64 {
	if p.TrendThreshold > 0 {
		return p.TrendThreshold
	}
	return DefaultTrendThreshold
}

// Feature is one per-pixel attribute bundle handed to the rendering
// boundary. The consumer owns geometry construction and color mapping.
type Feature struct {
	PixelID int     `json:"pixel_id"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	Value   float64 `json:"value"`
	Label   string  `json:"label,omitempty"`

	Baseline    *float64 `json:"baseline,omitempty"`
	Slope       *float64 `json:"slope,omitempty"`
	Direction   string   `json:"direction,omitempty"`
	Correlation *float64 `json:"correlation,omitempty"`
	Strength    string   `json:"strength,omitempty"`
	Points      int      `json:"points,omitempty"`
	LossYear    int      `json:"loss_year,omitempty"`
}

// Collection is the full output of one derivation call.
type Collection struct {
	LoadID      string    `json:"load_id"`
	Dataset     string    `json:"dataset"`
	Kind        string    `json:"kind"`
	Mode        Mode      `json:"mode"`
	Metric      string    `json:"metric,omitempty"`
	Synthetic   bool      `json:"synthetic,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Features    []Feature `json:"features"`
}

// Derive computes the requested view over the load's valid records. It
// returns a *ModeError when the mode is incompatible with the dataset kind
// or the required parameters are missing.
func Derive(l *dataset.Load, mode Mode, p Params) (*Collection, error) {
	records := l.ValidRecords()
	var (
		features []Feature
		err      error
	)
	switch mode {
	case ModeCurrentValue:
		features, err = currentValue(l.Kind, records, p)
	case ModeChangeFromBaseline:
		features, err = changeFromBaseline(l.Kind, records, p)
	case ModeTrendAnalysis:
		features, err = trendAnalysis(l.Kind, records, p)
	case ModeCorrelation:
		features, err = correlation(l.Kind, records, p)
	case ModeForestChange:
		features, err = forestChange(l.Kind, records)
	case ModeBinary:
		features, err = binaryClassification(l.Kind, records)
	default:
		err = &ModeError{Mode: mode, Reason: "unsupported mode"}
	}
	if err != nil {
		return nil, err
	}
	return &Collection{
		LoadID:      l.ID.String(),
		Dataset:     l.Name,
		Kind:        string(l.Kind),
		Mode:        mode,
		Metric:      p.Metric,
		Synthetic:   l.Synthetic,
		GeneratedAt: time.Now().UTC(),
		Features:    features,
	}, nil
}

func requireMetric(mode Mode, kind dataset.Kind, metric string) error {
	if metric == "" {
		return &ModeError{Mode: mode, Reason: "no metric selected"}
	}
	if !kind.HasMetric(metric) {
		return &ModeError{Mode: mode, Reason: fmt.Sprintf("dataset kind %s has no metric %q", kind, metric)}
	}
	return nil
}

func requireTimeSeries(mode Mode, kind dataset.Kind) error {
	if !kind.TimeSeries() {
		return &ModeError{Mode: mode, Reason: fmt.Sprintf("dataset kind %s carries no year field", kind)}
	}
	return nil
}

// yearBounds returns the year coverage observed across the records.
func yearBounds(records []dataset.PixelRecord) (min, max int, ok bool) {
	for _, r := range records {
		if r.Year == 0 {
			continue
		}
		if !ok {
			min, max, ok = r.Year, r.Year, true
			continue
		}
		if r.Year < min {
			min = r.Year
		}
		if r.Year > max {
			max = r.Year
		}
	}
	return min, max, ok
}

// requireYearInData refuses a year selection outside the data's coverage;
// an empty selection at a covered year is legitimate, a year the load never
// observed is a configuration error.
func requireYearInData(mode Mode, name string, year int, records []dataset.PixelRecord) error {
	min, max, ok := yearBounds(records)
	if !ok {
		return nil
	}
	if year < min || year > max {
		return &ModeError{Mode: mode, Reason: fmt.Sprintf("%s %d is outside the data's coverage %d-%d", name, year, min, max)}
	}
	return nil
}

func currentValue(kind dataset.Kind, records []dataset.PixelRecord, p Params) ([]Feature, error) {
	switch kind {
	case dataset.KindClassification:
		if p.Year == 0 {
			return nil, &ModeError{Mode: ModeCurrentValue, Reason: "classification data needs --year"}
		}
		if err := requireYearInData(ModeCurrentValue, "year", p.Year, records); err != nil {
			return nil, err
		}
		var out []Feature
		for _, r := range records {
			if r.Year != p.Year {
				continue
			}
			class := r.Classes[r.Year]
			out = append(out, Feature{
				PixelID: r.PixelID, Lon: r.X, Lat: r.Y,
				Value: float64(class),
				Label: fmt.Sprintf("class_%d", class),
			})
		}
		return out, nil
	case dataset.KindBinaryCover:
		var out []Feature
		for _, r := range records {
			v, ok := r.Metric(p.Metric)
			if !ok {
				v = binaryValue(r.Metrics)
			}
			out = append(out, Feature{PixelID: r.PixelID, Lon: r.X, Lat: r.Y, Value: v})
		}
		return out, nil
	}

	if err := requireMetric(ModeCurrentValue, kind, p.Metric); err != nil {
		return nil, err
	}
	if kind.TimeSeries() {
		if p.Year == 0 {
			return nil, &ModeError{Mode: ModeCurrentValue, Reason: "time-series data needs --year"}
		}
		if err := requireYearInData(ModeCurrentValue, "year", p.Year, records); err != nil {
			return nil, err
		}
	}
	var out []Feature
	for _, r := range records {
		if kind.TimeSeries() && r.Year != p.Year {
			continue
		}
		v, ok := r.Metric(p.Metric)
		if !ok {
			continue
		}
		out = append(out, Feature{PixelID: r.PixelID, Lon: r.X, Lat: r.Y, Value: v})
	}
	return out, nil
}

func changeFromBaseline(kind dataset.Kind, records []dataset.PixelRecord, p Params) ([]Feature, error) {
	if err := requireTimeSeries(ModeChangeFromBaseline, kind); err != nil {
		return nil, err
	}
	if err := requireMetric(ModeChangeFromBaseline, kind, p.Metric); err != nil {
		return nil, err
	}
	if p.Year == 0 || p.BaselineYear == 0 {
		return nil, &ModeError{Mode: ModeChangeFromBaseline, Reason: "both --year and --baseline-year are required"}
	}
	if err := requireYearInData(ModeChangeFromBaseline, "year", p.Year, records); err != nil {
		return nil, err
	}
	if err := requireYearInData(ModeChangeFromBaseline, "baseline year", p.BaselineYear, records); err != nil {
		return nil, err
	}

	type obs struct {
		rec       dataset.PixelRecord
		base, cur float64
		hasBase   bool
		hasCur    bool
	}
	byPixel := make(map[int]*obs)
	order := []int{}
	for _, r := range records {
		v, ok := r.Metric(p.Metric)
		if !ok || (r.Year != p.Year && r.Year != p.BaselineYear) {
			continue
		}
		o := byPixel[r.PixelID]
		if o == nil {
			o = &obs{rec: r}
			byPixel[r.PixelID] = o
			order = append(order, r.PixelID)
		}
		if r.Year == p.BaselineYear {
			o.base, o.hasBase = v, true
		}
		if r.Year == p.Year {
			o.cur, o.hasCur = v, true
		}
	}

	var out []Feature
	for _, id := range order {
		o := byPixel[id]
		// Pixels missing either year are skipped, never zero-filled.
		if !o.hasBase || !o.hasCur {
			continue
		}
		base := o.base
		out = append(out, Feature{
			PixelID:  id,
			Lon:      o.rec.X,
			Lat:      o.rec.Y,
			Value:    o.cur - o.base,
			Baseline: &base,
		})
	}
	return out, nil
}

func trendAnalysis(kind dataset.Kind, records []dataset.PixelRecord, p Params) ([]Feature, error) {
	if err := requireTimeSeries(ModeTrendAnalysis, kind); err != nil {
		return nil, err
	}
	if err := requireMetric(ModeTrendAnalysis, kind, p.Metric); err != nil {
		return nil, err
	}

	type series struct {
		rec    dataset.PixelRecord
		xs, ys []float64
	}
	byPixel := make(map[int]*series)
	order := []int{}
	for _, r := range records {
		v, ok := r.Metric(p.Metric)
		if !ok {
			continue
		}
		s := byPixel[r.PixelID]
		if s == nil {
			s = &series{rec: r}
			byPixel[r.PixelID] = s
			order = append(order, r.PixelID)
		}
		s.xs = append(s.xs, float64(r.Year))
		s.ys = append(s.ys, v)
	}

	threshold := p.trendThreshold()
	var out []Feature
	for _, id := range order {
		s := byPixel[id]
		if len(s.xs) < 2 {
			continue // slope undefined, pixel dropped
		}
		slope, _, err := stats.LinearRegression(s.xs, s.ys)
		if err != nil {
			continue
		}
		mean, err := stats.Mean(s.ys)
		if err != nil {
			continue
		}
		direction := "stable"
		switch {
		case slope > threshold:
			direction = "increasing"
		case slope < -threshold:
			direction = "decreasing"
		}
		sl := slope
		out = append(out, Feature{
			PixelID:   id,
			Lon:       s.rec.X,
			Lat:       s.rec.Y,
			Value:     mean,
			Label:     direction,
			Slope:     &sl,
			Direction: direction,
			Points:    len(s.xs),
		})
	}
	return out, nil
}

func correlation(kind dataset.Kind, records []dataset.PixelRecord, p Params) ([]Feature, error) {
	if err := requireTimeSeries(ModeCorrelation, kind); err != nil {
		return nil, err
	}
	if err := requireMetric(ModeCorrelation, kind, p.Metric); err != nil {
		return nil, err
	}
	if p.SecondMetric == "" || !kind.HasMetric(p.SecondMetric) {
		return nil, &ModeError{Mode: ModeCorrelation, Reason: fmt.Sprintf("second metric %q is not available on kind %s", p.SecondMetric, kind)}
	}
	if p.Year == 0 {
		return nil, &ModeError{Mode: ModeCorrelation, Reason: "correlation needs --year"}
	}
	if err := requireYearInData(ModeCorrelation, "year", p.Year, records); err != nil {
		return nil, err
	}

	var (
		xs, ys   []float64
		contribs []dataset.PixelRecord
	)
	for _, r := range records {
		if r.Year != p.Year {
			continue
		}
		a, okA := r.Metric(p.Metric)
		b, okB := r.Metric(p.SecondMetric)
		if !okA || !okB {
			continue
		}
		xs = append(xs, a)
		ys = append(ys, b)
		contribs = append(contribs, r)
	}

	// r = 0 for degenerate input is the documented convention.
	r := stats.PearsonCorrelation(xs, ys)
	strength := strengthLabel(r, p)

	out := make([]Feature, 0, len(contribs))
	for _, rec := range contribs {
		rr := r
		out = append(out, Feature{
			PixelID:     rec.PixelID,
			Lon:         rec.X,
			Lat:         rec.Y,
			Value:       r,
			Label:       strength,
			Correlation: &rr,
			Strength:    strength,
			Points:      len(contribs),
		})
	}
	return out, nil
}

func strengthLabel(r float64, p Params) string {
	strong := p.StrongCorr
	if strong <= 0 {
		strong = DefaultStrongCorrelation
	}
	moderate := p.ModerateCorr
	if moderate <= 0 {
		moderate = DefaultModerateCorrelation
	}
	abs := math.Abs(r)
	band := "weak"
	switch {
	case abs > strong:
		band = "strong"
	case abs > moderate:
		band = "moderate"
	}
	if band != "weak" && r < 0 {
		return band + " negative"
	}
	if band != "weak" {
		return band + " positive"
	}
	return band
}

// Forest-change output codes.
const (
	changeStable = 0.0
	changeLoss   = 1.0
	changeGain   = 2.0
)

func forestChange(kind dataset.Kind, records []dataset.PixelRecord) ([]Feature, error) {
	if kind != dataset.KindForestChange {
		return nil, &ModeError{Mode: ModeForestChange, Reason: fmt.Sprintf("dataset kind %s carries no change events", kind)}
	}
	var out []Feature
	for _, r := range records {
		f := Feature{PixelID: r.PixelID, Lon: r.X, Lat: r.Y, Value: changeStable, Label: "stable"}
		switch {
		case r.LossYear > 0:
			f.Value = changeLoss
			f.Label = "loss"
			f.LossYear = r.LossYear
		case r.HasGain:
			f.Value = changeGain
			f.Label = "gain"
		}
		out = append(out, f)
	}
	return out, nil
}

func binaryClassification(kind dataset.Kind, records []dataset.PixelRecord) ([]Feature, error) {
	switch kind {
	case dataset.KindBinaryCover:
		var out []Feature
		for _, r := range records {
			v := binaryValue(r.Metrics)
			label := "non_forest"
			if v == 1 {
				label = "forest"
			}
			out = append(out, Feature{PixelID: r.PixelID, Lon: r.X, Lat: r.Y, Value: v, Label: label})
		}
		return out, nil
	case dataset.KindClassification:
		// Relabel by dominant class; one feature per pixel.
		seen := make(map[int]bool)
		var out []Feature
		for _, r := range records {
			if seen[r.PixelID] {
				continue
			}
			seen[r.PixelID] = true
			label := fmt.Sprintf("class_%d", r.DominantClass)
			if r.HasTemporalChange {
				label += " (changed)"
			}
			out = append(out, Feature{PixelID: r.PixelID, Lon: r.X, Lat: r.Y, Value: float64(r.DominantClass), Label: label})
		}
		return out, nil
	}
	return nil, &ModeError{Mode: ModeBinary, Reason: fmt.Sprintf("dataset kind %s has no categorical band", kind)}
}

func binaryValue(metrics map[string]float64) float64 {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if metrics[k] == 1 {
			return 1
		}
	}
	return 0
}
