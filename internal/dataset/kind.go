// Package dataset normalizes raw pixel tables from the supported
// remote-sensing products into one canonical record model keyed by a stable
// per-coordinate pixel id.
package dataset

import (
	"fmt"
	"strings"
)

// Kind identifies which of the five canonical dataset shapes a record
// follows. Each shape declares its own required columns and no-data policy.
type Kind string

const (
	// KindTimeSeries is the multi-metric yearly product
	// (x, y, year, canopy_cover, tree_height, ...).
	KindTimeSeries Kind = "timeseries"
	// KindCanopy is the single-metric canopy-cover yearly product.
	KindCanopy Kind = "canopy"
	// KindForestChange is the static change-event product
	// (x, y, datamask, gain, lossyear, treecover2000).
	KindForestChange Kind = "forest_change"
	// KindClassification is the multi-year land-use product with one
	// class_<year> column per declared year.
	KindClassification Kind = "classification"
	// KindBinaryCover is the static binary product (x, y, <field>_2020).
	KindBinaryCover Kind = "binary_cover"
)

// Metric column names of the multi-metric time series.
const (
	MetricCanopyCover    = "canopy_cover"
	MetricTreeHeight     = "tree_height"
	MetricLivingBiomass  = "living_biomass"
	MetricCarbonStock    = "living_biomass_carbon_stock"
	MetricDiversityIndex = "raos_q_diversity_index"
)

// noDataSentinel marks missing observations in mask and classification bands.
const noDataSentinel = 255

// Default year coverage observed in the source products.
const (
	defaultYearMin = 2013
	defaultYearMax = 2024

	classYearMin = 2017
	classYearMax = 2023

	binaryCoverYear = 2020
)

// ParseKind maps a user-facing name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTimeSeries:
		return KindTimeSeries, nil
	case KindCanopy:
		return KindCanopy, nil
	case KindForestChange:
		return KindForestChange, nil
	case KindClassification:
		return KindClassification, nil
	case KindBinaryCover:
		return KindBinaryCover, nil
	}
	return "", fmt.Errorf("unknown dataset kind %q (use timeseries|canopy|forest_change|classification|binary_cover)", s)
}

// TimeSeries reports whether records of this kind carry a year.
func (k Kind) TimeSeries() bool {
	return k == KindTimeSeries || k == KindCanopy
}

// Metrics returns the metric columns records of this kind may carry.
// Classification and binary kinds expose no fixed metric columns; their
// values are categorical and surface through the record's extra fields.
func (k Kind) Metrics() []string {
	switch k {
	case KindTimeSeries:
		return []string{
			MetricCanopyCover, MetricTreeHeight, MetricLivingBiomass,
			MetricCarbonStock, MetricDiversityIndex,
		}
	case KindCanopy:
		return []string{MetricCanopyCover}
	case KindForestChange:
		return []string{"treecover2000"}
	default:
		return nil
	}
}

// HasMetric reports whether name is one of the kind's metric columns.
func (k Kind) HasMetric(name string) bool {
	for _, m := range k.Metrics() {
		if m == name {
			return true
		}
	}
	return false
}

// ClassYears returns the declared years of the classification product, in
// declaration order.
func ClassYears() []int {
	years := make([]int, 0, classYearMax-classYearMin+1)
	for y := classYearMin; y <= classYearMax; y++ {
		years = append(years, y)
	}
	return years
}
