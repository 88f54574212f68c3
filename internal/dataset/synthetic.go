package dataset

import (
	"math"

	"github.com/google/uuid"
)

// Synthetic grid placement: an 8x8 cell patch at ~30 m spacing.
const (
	synGridSize = 8
	synOriginX  = -60.0
	synOriginY  = -3.0
	synStep     = 0.00027
)

// Synthesize builds a deterministic stand-in dataset of the given kind. It
// backs the acquisition-failure fallback, so the values only need to look
// plausible; the Load is flagged Synthetic and consumers must surface that.
func Synthesize(kind Kind, opt LoadOptions) *Load {
	load := &Load{ID: uuid.New(), Name: "synthetic", Kind: kind, Synthetic: true}
	norm := NewNormalizer(kind, NewIndex())
	if opt.YearMin > 0 {
		norm.YearMin = opt.YearMin
	}
	if opt.YearMax > 0 {
		norm.YearMax = opt.YearMax
	}

	for i := 0; i < synGridSize; i++ {
		for j := 0; j < synGridSize; j++ {
			x := synOriginX + float64(i)*synStep
			y := synOriginY + float64(j)*synStep
			cell := i*synGridSize + j
			for _, row := range syntheticRows(kind, norm, x, y, cell) {
				recs, err := norm.Normalize(row)
				if err != nil {
					continue
				}
				load.Rows++
				load.Records = append(load.Records, recs...)
			}
		}
	}
	return load
}

func syntheticRows(kind Kind, norm *Normalizer, x, y float64, cell int) []Row {
	switch kind {
	case KindTimeSeries, KindCanopy:
		rows := make([]Row, 0, norm.YearMax-norm.YearMin+1)
		for year := norm.YearMin; year <= norm.YearMax; year++ {
			t := float64(year - norm.YearMin)
			cover := 40 + 30*math.Sin(float64(cell)/7) + 1.5*t
			row := Row{"x": x, "y": y, "year": float64(year), MetricCanopyCover: clampPct(cover)}
			if kind == KindTimeSeries {
				row[MetricTreeHeight] = 8 + 0.4*t + float64(cell%5)
				row[MetricLivingBiomass] = 120 + 6*t + 2*float64(cell%9)
				row[MetricCarbonStock] = 0.47 * row[MetricLivingBiomass]
				row[MetricDiversityIndex] = 0.2 + 0.05*float64(cell%11)
			}
			rows = append(rows, row)
		}
		return rows
	case KindForestChange:
		row := Row{"x": x, "y": y, "datamask": 1, "gain": 0, "lossyear": 0, "treecover2000": clampPct(55 + 25*math.Sin(float64(cell)/5))}
		switch cell % 9 {
		case 0:
			row["lossyear"] = float64(5 + cell%18)
		case 1:
			row["gain"] = 1
		}
		return []Row{row}
	case KindClassification:
		row := Row{"x": x, "y": y}
		base := 10 + cell%4*10
		for _, year := range norm.ClassYears {
			class := base
			// A third of the cells flip class halfway through the series.
			if cell%3 == 0 && year >= norm.ClassYears[len(norm.ClassYears)/2] {
				class = base + 10
			}
			row[classColumn(year)] = float64(class)
		}
		return []Row{row}
	case KindBinaryCover:
		return []Row{{"x": x, "y": y, "is_forest_2020": float64(cell % 2)}}
	}
	return nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
