package operator

import (
	"fmt"
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/log"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/series"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"gonum.org/v1/gonum/interp"
)

// InterpMethod selects the 1-D interpolant.
type InterpMethod string

const (
	Linear  InterpMethod = "linear"
	Nearest InterpMethod = "nearest"
	Cubic   InterpMethod = "cubic"
	Akima   InterpMethod = "akima"
	PCHIP   InterpMethod = "pchip"
)

func newPredictor(method InterpMethod) (interp.FittablePredictor, error) {
	switch method {
	case Linear, "":
		return &interp.PiecewiseLinear{}, nil
	case Nearest:
		return &interp.PiecewiseConstant{}, nil
	case Cubic:
		return &interp.NaturalCubic{}, nil
	case Akima:
		return &interp.AkimaSpline{}, nil
	case PCHIP:
		return &interp.FritschButland{}, nil
	default:
		return nil, fmt.Errorf("unknown interpolation method %q", method)
	}
}

// predict evaluates the fitted predictor, extending linearly from the
// end segments outside the fitted x-range. gonum's predictors are only
// defined inside the range.
func predict(p interp.FittablePredictor, xs []float64, x float64) float64 {
	lo, hi := xs[0], xs[len(xs)-1]
	switch {
	case x < lo:
		slope := (p.Predict(nudgeIn(lo, hi)) - p.Predict(lo)) / (nudgeIn(lo, hi) - lo)
		return p.Predict(lo) + slope*(x-lo)
	case x > hi:
		slope := (p.Predict(hi) - p.Predict(nudgeIn(hi, lo))) / (hi - nudgeIn(hi, lo))
		return p.Predict(hi) + slope*(x-hi)
	default:
		return p.Predict(x)
	}
}

// nudgeIn moves from an endpoint a small step toward the other end, to
// sample the boundary slope.
func nudgeIn(from, toward float64) float64 {
	step := math.Abs(from-toward) * 1e-6
	if step == 0 {
		return from
	}
	if toward > from {
		return from + step
	}
	return from - step
}

// InterpolateTables resamples every column of each table onto a common
// axis of the interpolation column. Tables whose interpolation column
// is not sorted are sorted first with a warning.
func InterpolateTables(tables []*series.Table, interpColumn string, commonAxis []float64, method InterpMethod) ([]*series.Table, error) {
	const ctx = "table interpolation"
	if len(tables) == 0 {
		return nil, fmt.Errorf("%s: no tables given", ctx)
	}
	if err := validate.NonEmptySeries(commonAxis, "common axis", ctx); err != nil {
		return nil, err
	}
	if err := validate.ColumnsExist(tables, []string{interpColumn}, ctx); err != nil {
		return nil, err
	}
	if _, err := newPredictor(method); err != nil {
		return nil, fmt.Errorf("%s: %w", ctx, err)
	}

	out := make([]*series.Table, 0, len(tables))
	for _, t := range tables {
		sorted, err := t.IsSortedBy(interpColumn)
		if err != nil {
			return nil, err
		}
		work := t
		if !sorted {
			log.Warnf("%s: table %q column %q is not sorted, sorting before interpolation", ctx, t.Name(), interpColumn)
			work = t.Clone()
			if err := work.SortBy(interpColumn); err != nil {
				return nil, err
			}
		}
		xs, _ := work.Column(interpColumn)

		result := series.New(t.Name())
		if err := result.SetColumn(interpColumn, commonAxis); err != nil {
			return nil, err
		}
		for _, col := range work.Columns() {
			if col == interpColumn {
				continue
			}
			ys, _ := work.Column(col)
			dx, dy := dedupeAxis(xs, ys)
			if len(dx) < 2 {
				return nil, fmt.Errorf("%s: table %q column %q has fewer than 2 distinct x values", ctx, t.Name(), interpColumn)
			}
			p, _ := newPredictor(method)
			if err := p.Fit(dx, dy); err != nil {
				return nil, fmt.Errorf("%s: fitting table %q column %q: %w", ctx, t.Name(), col, err)
			}
			vals := make([]float64, len(commonAxis))
			for i, x := range commonAxis {
				vals[i] = predict(p, dx, x)
			}
			if err := result.SetColumn(col, vals); err != nil {
				return nil, err
			}
		}
		out = append(out, result)
	}
	return out, nil
}

// dedupeAxis drops repeated x values (keeping the first y) so the
// interpolants get a strictly increasing axis.
func dedupeAxis(xs, ys []float64) ([]float64, []float64) {
	dx := make([]float64, 0, len(xs))
	dy := make([]float64, 0, len(ys))
	for i := range xs {
		if i > 0 && xs[i] <= dx[len(dx)-1] {
			continue
		}
		dx = append(dx, xs[i])
		dy = append(dy, ys[i])
	}
	return dx, dy
}

// AverageOptions controls AverageTables.
type AverageOptions struct {
	// Start / End override the shared-axis bounds. Nil means derive
	// them from the data.
	Start  *float64
	End    *float64
	Method InterpMethod
	// ForceInterpolation resamples even when all tables already share
	// an identical axis.
	ForceInterpolation bool
}

// AverageTables averages the named columns across tables on a shared
// axis of the interpolation column. When every table already has the
// same axis values, the mean is taken directly with no resampling so
// the result is exact. Columns missing from a table are skipped for
// that table with a warning.
func AverageTables(tables []*series.Table, avgColumns []string, interpColumn string, stepSize float64, opts *AverageOptions) (*series.Table, error) {
	const ctx = "table averaging"
	if len(tables) == 0 {
		return nil, fmt.Errorf("%s: no tables given", ctx)
	}
	if err := validate.PositiveNumber(stepSize, "step size", ctx); err != nil {
		return nil, err
	}
	if err := validate.ColumnsExist(tables, []string{interpColumn}, ctx); err != nil {
		return nil, err
	}
	if len(avgColumns) == 0 {
		return nil, fmt.Errorf("%s: no columns to average", ctx)
	}
	if opts == nil {
		opts = &AverageOptions{}
	}

	work := tables
	if !opts.ForceInterpolation && sharedAxis(tables, interpColumn) {
		log.Debugf("%s: tables share the interpolation axis, skipping interpolation", ctx)
	} else {
		lo, hi := axisBounds(tables, interpColumn)
		if opts.Start != nil {
			lo = *opts.Start
		}
		if opts.End != nil {
			hi = *opts.End
		}
		lo = math.Floor(lo/stepSize) * stepSize
		hi = math.Ceil(hi/stepSize) * stepSize
		axis := stepAxis(lo, hi, stepSize)
		var err error
		work, err = InterpolateTables(tables, interpColumn, axis, opts.Method)
		if err != nil {
			return nil, err
		}
	}

	axis, _ := work[0].Column(interpColumn)
	result := series.New("average")
	if err := result.SetColumn(interpColumn, axis); err != nil {
		return nil, err
	}
	for _, col := range avgColumns {
		sums := make([]float64, len(axis))
		counts := make([]int, len(axis))
		for _, t := range work {
			vals, err := t.Column(col)
			if err != nil {
				log.Warnf("%s: table %q has no column %q, skipping", ctx, t.Name(), col)
				continue
			}
			for i, v := range vals {
				sums[i] += v
				counts[i]++
			}
		}
		if counts[0] == 0 {
			log.Warnf("%s: column %q is missing from every table, skipping", ctx, col)
			continue
		}
		means := make([]float64, len(axis))
		for i := range means {
			means[i] = sums[i] / float64(counts[i])
		}
		if err := result.SetColumn(col, means); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func sharedAxis(tables []*series.Table, column string) bool {
	first, err := tables[0].Column(column)
	if err != nil {
		return false
	}
	for _, t := range tables[1:] {
		vals, err := t.Column(column)
		if err != nil || len(vals) != len(first) {
			return false
		}
		for i := range vals {
			if vals[i] != first[i] {
				return false
			}
		}
	}
	return true
}

func axisBounds(tables []*series.Table, column string) (float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, t := range tables {
		vals, err := t.Column(column)
		if err != nil {
			continue
		}
		for _, v := range vals {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

func stepAxis(lo, hi, step float64) []float64 {
	n := int(math.Round((hi-lo)/step)) + 1
	if n < 2 {
		n = 2
	}
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = lo + float64(i)*step
	}
	return axis
}
