package operator

import (
	"fmt"
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/uncert"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"gonum.org/v1/gonum/integrate"
)

// IntegralMethod selects the quadrature rule.
type IntegralMethod string

const (
	Trapezoidal IntegralMethod = "trapezoidal"
	Simpson     IntegralMethod = "simpson"
)

// IntegralOptions controls Integral and CumulativeIntegral.
type IntegralOptions struct {
	Method IntegralMethod
	// Custom replaces the built-in rules when non-nil. Custom methods
	// do not propagate uncertainty; combining Custom with an
	// uncertainty spec is an error.
	Custom func(y, x []float64) (float64, error)
	// Range restricts integration to x values within [Min, Max].
	Range *IntegrationRange
	// UncertaintyY / UncertaintyX supply input uncertainties.
	UncertaintyY *uncert.Spec
	UncertaintyX *uncert.Spec
}

// IntegrationRange is an inclusive x-interval mask.
type IntegrationRange struct {
	Min float64
	Max float64
}

// Integral integrates y over x. A nil x means unit spacing. Simpson
// requires an even interval count. The returned uncertainty combines
// the y- and x-uncertainty contributions through the rule's weights.
func Integral(y, x []float64, opts *IntegralOptions) (Scalar, error) {
	const ctx = "integral calculation"
	if err := validate.NonEmptySeries(y, "data series", ctx); err != nil {
		return Scalar{}, err
	}
	if x == nil {
		x = unitSpacing(len(y))
	}
	if err := validate.SameLength(y, x, "data series", "independent variable", ctx); err != nil {
		return Scalar{}, err
	}
	if opts == nil {
		opts = &IntegralOptions{}
	}

	y, x, err := maskRange(y, x, opts.Range, ctx)
	if err != nil {
		return Scalar{}, err
	}
	if len(y) < 2 {
		return Scalar{}, fmt.Errorf("%s: need at least 2 points after range masking, got %d", ctx, len(y))
	}

	if opts.Custom != nil && (opts.UncertaintyY != nil || opts.UncertaintyX != nil) {
		return Scalar{}, fmt.Errorf("%s: custom methods do not propagate uncertainty", ctx)
	}

	uy, err := opts.UncertaintyY.ApplySeries(y, "data series", ctx)
	if err != nil {
		return Scalar{}, err
	}
	ux, err := opts.UncertaintyX.ApplySeries(x, "independent variable", ctx)
	if err != nil {
		return Scalar{}, err
	}
	hasUncertainty := opts.UncertaintyY != nil || opts.UncertaintyX != nil

	if opts.Custom != nil {
		v, err := opts.Custom(y, x)
		if err != nil {
			return Scalar{}, fmt.Errorf("%s: custom method: %w", ctx, err)
		}
		return Scalar{Value: v}, nil
	}

	switch opts.Method {
	case Trapezoidal, "":
		result := Scalar{Value: integrate.Trapezoidal(x, y)}
		if hasUncertainty {
			result.Uncertainty = trapezoidUncertainty(y, x, uy, ux)
		}
		return result, nil
	case Simpson:
		if (len(y)-1)%2 != 0 {
			return Scalar{}, fmt.Errorf("%s: simpson rule requires an even interval count, got %d intervals", ctx, len(y)-1)
		}
		result := Scalar{Value: integrate.Simpsons(x, y)}
		if hasUncertainty {
			result.Uncertainty = simpsonUncertainty(y, x, uy, ux)
		}
		return result, nil
	default:
		return Scalar{}, fmt.Errorf("%s: unknown method %q", ctx, opts.Method)
	}
}

// CumulativeIntegral returns the running trapezoidal integral of y
// over x. The first element and its uncertainty are zero. Simpson has
// no cumulative form here and is rejected, as is an x-uncertainty
// spec: only the y-uncertainty is propagated.
func CumulativeIntegral(y, x []float64, opts *IntegralOptions) (Series, error) {
	const ctx = "cumulative integral calculation"
	if err := validate.NonEmptySeries(y, "data series", ctx); err != nil {
		return Series{}, err
	}
	if x == nil {
		x = unitSpacing(len(y))
	}
	if err := validate.SameLength(y, x, "data series", "independent variable", ctx); err != nil {
		return Series{}, err
	}
	if opts == nil {
		opts = &IntegralOptions{}
	}
	if opts.Method == Simpson {
		return Series{}, fmt.Errorf("%s: simpson rule has no cumulative form, use trapezoidal", ctx)
	}
	if opts.Method != Trapezoidal && opts.Method != "" {
		return Series{}, fmt.Errorf("%s: unknown method %q", ctx, opts.Method)
	}
	if opts.UncertaintyX != nil {
		return Series{}, fmt.Errorf("%s: x-uncertainty is not propagated in the cumulative form", ctx)
	}

	y, x, err := maskRange(y, x, opts.Range, ctx)
	if err != nil {
		return Series{}, err
	}
	if len(y) < 2 {
		return Series{}, fmt.Errorf("%s: need at least 2 points after range masking, got %d", ctx, len(y))
	}

	uy, err := opts.UncertaintyY.ApplySeries(y, "data series", ctx)
	if err != nil {
		return Series{}, err
	}
	hasUncertainty := opts.UncertaintyY != nil

	n := len(y)
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + (x[i]-x[i-1])*(y[i]+y[i-1])/2
	}
	out := Series{Value: values}
	if hasUncertainty {
		out.Uncertainty = make([]float64, n)
		variance := 0.0
		for i := 1; i < n; i++ {
			seg := (x[i] - x[i-1]) / 2 * math.Hypot(uy[i], uy[i-1])
			variance += seg * seg
			out.Uncertainty[i] = math.Sqrt(variance)
		}
	}
	return out, nil
}

func maskRange(y, x []float64, r *IntegrationRange, context string) ([]float64, []float64, error) {
	if r == nil {
		return y, x, nil
	}
	if r.Min > r.Max {
		return nil, nil, fmt.Errorf("%s: integration range min %v exceeds max %v", context, r.Min, r.Max)
	}
	var my, mx []float64
	for i := range x {
		if x[i] >= r.Min && x[i] <= r.Max {
			my = append(my, y[i])
			mx = append(mx, x[i])
		}
	}
	return my, mx, nil
}

// trapezoidUncertainty propagates through the exact partial
// derivatives of the trapezoid sum with respect to each y and x value.
func trapezoidUncertainty(y, x, uy, ux []float64) float64 {
	n := len(y)
	variance := 0.0
	for i := 0; i < n; i++ {
		var wy float64
		switch i {
		case 0:
			wy = (x[1] - x[0]) / 2
		case n - 1:
			wy = (x[n-1] - x[n-2]) / 2
		default:
			wy = (x[i+1] - x[i-1]) / 2
		}
		variance += wy * wy * uy[i] * uy[i]

		var wx float64
		switch i {
		case 0:
			wx = -(y[0] + y[1]) / 2
		case n - 1:
			wx = (y[n-2] + y[n-1]) / 2
		default:
			wx = (y[i-1] - y[i+1]) / 2
		}
		variance += wx * wx * ux[i] * ux[i]
	}
	return math.Sqrt(variance)
}

// simpsonUncertainty applies the composite-Simpson weights
// 1,4,2,...,4,1 scaled by h/3 to the y-uncertainties, with the
// x-uncertainty entering through the local slope.
func simpsonUncertainty(y, x, uy, ux []float64) float64 {
	n := len(y)
	h := (x[n-1] - x[0]) / float64(n-1)
	variance := 0.0
	for i := 0; i < n; i++ {
		w := 2.0
		if i == 0 || i == n-1 {
			w = 1.0
		} else if i%2 == 1 {
			w = 4.0
		}
		w *= h / 3

		variance += w * w * uy[i] * uy[i]

		lo, hi := i-1, i+1
		if lo < 0 {
			lo = 0
		}
		if hi > n-1 {
			hi = n - 1
		}
		slope := (y[hi] - y[lo]) / (x[hi] - x[lo])
		variance += w * w * slope * slope * ux[i] * ux[i]
	}
	return math.Sqrt(variance)
}
