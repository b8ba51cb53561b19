// Package aggregate reduces scalar or series properties across a
// sample group.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"gonum.org/v1/gonum/stat"
)

// Method names a built-in statistic.
type Method string

const (
	Mean   Method = "mean"
	Median Method = "median"
	Stddev Method = "stddev"
	Mode   Method = "mode"
)

// Scalar reduces a list of scalar property values with the named
// statistic. Stddev is the sample standard deviation.
func Scalar(values []float64, method Method) (float64, error) {
	const ctx = "scalar aggregation"
	if err := validate.NonEmptySeries(values, "values", ctx); err != nil {
		return 0, err
	}
	switch method {
	case Mean, "":
		return stat.Mean(values, nil), nil
	case Median:
		return median(values), nil
	case Stddev:
		if len(values) < 2 {
			return 0, fmt.Errorf("%s: stddev needs at least 2 values, got %d", ctx, len(values))
		}
		return stat.StdDev(values, nil), nil
	case Mode:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mode, _ := stat.Mode(sorted, nil)
		return mode, nil
	default:
		return 0, fmt.Errorf("%s: unknown method %q", ctx, method)
	}
}

// ScalarFunc reduces with a caller-supplied statistic.
func ScalarFunc(values []float64, fn func([]float64) float64) (float64, error) {
	const ctx = "scalar aggregation"
	if err := validate.NonEmptySeries(values, "values", ctx); err != nil {
		return 0, err
	}
	if fn == nil {
		return 0, fmt.Errorf("%s: aggregation function is nil", ctx)
	}
	return fn(values), nil
}

// Series reduces a group of equal-length series elementwise.
func Series(group [][]float64, method Method) ([]float64, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	switch method {
	case Mean, "":
		return reduceSeries(group, func(col []float64) float64 { return stat.Mean(col, nil) }), nil
	case Median:
		return reduceSeries(group, median), nil
	default:
		return nil, fmt.Errorf("series aggregation: unknown method %q", method)
	}
}

// SeriesFunc reduces a group elementwise with a caller-supplied
// statistic.
func SeriesFunc(group [][]float64, fn func([]float64) float64) ([]float64, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("series aggregation: aggregation function is nil")
	}
	return reduceSeries(group, fn), nil
}

func checkGroup(group [][]float64) error {
	const ctx = "series aggregation"
	if len(group) == 0 {
		return fmt.Errorf("%s: no series given", ctx)
	}
	for i, s := range group {
		if err := validate.NonEmptySeries(s, fmt.Sprintf("series %d", i), ctx); err != nil {
			return err
		}
		if len(s) != len(group[0]) {
			return fmt.Errorf("%s: series %d has length %d, series 0 has length %d",
				ctx, i, len(s), len(group[0]))
		}
	}
	return nil
}

func reduceSeries(group [][]float64, fn func([]float64) float64) []float64 {
	n := len(group[0])
	out := make([]float64, n)
	col := make([]float64, len(group))
	for i := 0; i < n; i++ {
		for j, s := range group {
			col[j] = s[i]
		}
		out[i] = fn(col)
	}
	return out
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
