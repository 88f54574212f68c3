// Package stats provides the pure numeric routines used by view derivation:
// ordinary-least-squares regression, Pearson correlation, and simple
// descriptive summaries. All functions are stateless.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// InsufficientDataError indicates a computation was requested with fewer
// points than the formula needs, or with mismatched series lengths.
type InsufficientDataError struct {
	Op   string
	Have int
	Want int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d points, have %d", e.Op, e.Want, e.Have)
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("mean: empty input")
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// LinearRegression fits y = slope*x + intercept by ordinary least squares.
// It fails with *InsufficientDataError when fewer than two points are given
// or the series lengths differ, and with a plain error when all xs are
// identical (the slope is undefined).
func LinearRegression(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, &InsufficientDataError{Op: "linear regression", Have: len(ys), Want: len(xs)}
	}
	if len(xs) < 2 {
		return 0, 0, &InsufficientDataError{Op: "linear regression", Have: len(xs), Want: 2}
	}
	n := float64(len(xs))
	var sumX, sumY, sumXX, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, errors.New("linear regression: zero variance in x")
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, nil
}

// PearsonCorrelation computes the Pearson correlation coefficient of two
// parallel series. By convention it returns 0 (not an error) when fewer than
// two points are given, the lengths differ, or either series has zero
// variance; callers that need to distinguish "undefined" from "uncorrelated"
// must check the inputs themselves.
func PearsonCorrelation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	n := float64(len(xs))
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
		sumXY += xs[i] * ys[i]
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	// Clamp rounding spill outside [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Summary captures descriptive statistics of one numeric series.
type Summary struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
}

// Describe computes count/min/max/mean/std for values using Welford's
// update, so a single pass suffices. An empty input yields a zero Summary.
func Describe(values []float64) Summary {
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	var mean, m2 float64
	for _, v := range values {
		s.Count++
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		delta := v - mean
		mean += delta / float64(s.Count)
		m2 += delta * (v - mean)
	}
	if s.Count == 0 {
		return Summary{}
	}
	s.Mean = mean
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}
	return s
}
