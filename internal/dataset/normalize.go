package dataset

import (
	"fmt"
	"math"
)

// Row is one parsed input row: trimmed, lower-cased column names mapped to
// their numeric values. Columns that failed numeric coercion are absent.
type Row map[string]float64

// InvalidRecordError indicates a row whose required coordinate or time
// fields are missing, non-finite, or out of the declared range. Callers drop
// the row and continue; it is never fatal to a load.
type InvalidRecordError struct {
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record: field %q %s", e.Field, e.Reason)
}

// Normalizer converts raw rows of one dataset kind into canonical
// PixelRecords, assigning pixel ids through the caller-owned Index.
type Normalizer struct {
	Kind  Kind
	Index *Index

	// YearMin/YearMax bound the accepted year for time-series kinds.
	YearMin int
	YearMax int

	// ClassYears are the declared years of the classification product.
	ClassYears []int
}

// NewNormalizer returns a Normalizer for kind with the product's default
// year coverage. The index must not be shared between concurrent loads.
func NewNormalizer(kind Kind, index *Index) *Normalizer {
	n := &Normalizer{Kind: kind, Index: index}
	if kind.TimeSeries() {
		n.YearMin = defaultYearMin
		n.YearMax = defaultYearMax
	}
	if kind == KindClassification {
		n.ClassYears = ClassYears()
	}
	return n
}

// Normalize converts one raw row into canonical records. Most kinds yield a
// single record; the classification kind expands one row into one record per
// declared year. A sentinel hit yields records with Valid=false rather than
// an error.
func (n *Normalizer) Normalize(row Row) ([]PixelRecord, error) {
	x, y, err := coords(row)
	if err != nil {
		return nil, err
	}
	id := n.Index.Assign(x, y)

	switch n.Kind {
	case KindTimeSeries, KindCanopy:
		rec, err := n.normalizeTimeSeries(row, id, x, y)
		if err != nil {
			return nil, err
		}
		return []PixelRecord{rec}, nil
	case KindForestChange:
		return []PixelRecord{n.normalizeForestChange(row, id, x, y)}, nil
	case KindClassification:
		return n.normalizeClassification(row, id, x, y), nil
	case KindBinaryCover:
		return []PixelRecord{n.normalizeBinaryCover(row, id, x, y)}, nil
	}
	return nil, fmt.Errorf("normalize: unsupported dataset kind %q", n.Kind)
}

func coords(row Row) (x, y float64, err error) {
	x, ok := row["x"]
	if !ok || !finite(x) {
		return 0, 0, &InvalidRecordError{Field: "x", Reason: "is missing or not a finite number"}
	}
	y, ok = row["y"]
	if !ok || !finite(y) {
		return 0, 0, &InvalidRecordError{Field: "y", Reason: "is missing or not a finite number"}
	}
	return x, y, nil
}

func (n *Normalizer) normalizeTimeSeries(row Row, id int, x, y float64) (PixelRecord, error) {
	yearF, ok := row["year"]
	if !ok || !finite(yearF) {
		return PixelRecord{}, &InvalidRecordError{Field: "year", Reason: "is missing or not a finite number"}
	}
	year := int(yearF)
	if year < n.YearMin || year > n.YearMax {
		return PixelRecord{}, &InvalidRecordError{
			Field:  "year",
			Reason: fmt.Sprintf("value %d is outside the declared range %d-%d", year, n.YearMin, n.YearMax),
		}
	}
	rec := PixelRecord{
		PixelID: id, X: x, Y: y, Kind: n.Kind, Year: year,
		Metrics: make(map[string]float64),
		Valid:   true,
	}
	for _, m := range n.Kind.Metrics() {
		if v, ok := row[m]; ok && finite(v) {
			rec.Metrics[m] = v
		}
	}
	return rec, nil
}

func (n *Normalizer) normalizeForestChange(row Row, id int, x, y float64) PixelRecord {
	rec := PixelRecord{
		PixelID: id, X: x, Y: y, Kind: KindForestChange,
		Metrics: make(map[string]float64),
		Valid:   row["datamask"] == 1,
	}
	if lossyear, ok := row["lossyear"]; ok && lossyear > 0 {
		rec.LossYear = 2000 + int(lossyear)
	}
	rec.HasGain = row["gain"] == 1
	if tc, ok := row["treecover2000"]; ok && finite(tc) {
		rec.TreeCover2000 = tc
		rec.Metrics["treecover2000"] = tc
	}
	return rec
}

func (n *Normalizer) normalizeClassification(row Row, id int, x, y float64) []PixelRecord {
	classes := make(map[int]int, len(n.ClassYears))
	distinct := make(map[int]struct{})
	dominant := 0
	haveDominant := false
	for _, year := range n.ClassYears {
		v, ok := row[classColumn(year)]
		if !ok || !finite(v) {
			continue
		}
		class := int(v)
		classes[year] = class
		if class == noDataSentinel {
			continue
		}
		distinct[class] = struct{}{}
		if !haveDominant {
			dominant = class
			haveDominant = true
		}
	}
	changed := len(distinct) > 1

	recs := make([]PixelRecord, 0, len(classes))
	for _, year := range n.ClassYears {
		class, ok := classes[year]
		if !ok {
			continue
		}
		recs = append(recs, PixelRecord{
			PixelID: id, X: x, Y: y, Kind: KindClassification, Year: year,
			Valid:             class != noDataSentinel,
			Classes:           classes,
			DominantClass:     dominant,
			HasTemporalChange: changed,
		})
	}
	return recs
}

func (n *Normalizer) normalizeBinaryCover(row Row, id int, x, y float64) PixelRecord {
	rec := PixelRecord{
		PixelID: id, X: x, Y: y, Kind: KindBinaryCover,
		Metrics: make(map[string]float64),
		Valid:   false,
	}
	suffix := fmt.Sprintf("_%d", binaryCoverYear)
	for col, v := range row {
		if col == "x" || col == "y" || !finite(v) {
			continue
		}
		if len(col) > len(suffix) && col[len(col)-len(suffix):] == suffix {
			field := col[:len(col)-len(suffix)]
			rec.Metrics[field] = v
			rec.Valid = v != noDataSentinel
		}
	}
	return rec
}

func classColumn(year int) string { return fmt.Sprintf("class_%d", year) }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
